package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/helpers/dbtime"
)

func mustTod(t *testing.T, s string) dbtime.Tod {
	t.Helper()
	tod, err := dbtime.Parse(s)
	require.NoError(t, err)
	return tod
}

func TestExpectedMinutes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"two hour slot", "08:00", "10:00", 120},
		{"ninety minutes", "13:30", "15:00", 90},
		{"crosses midnight", "23:00", "01:00", 120},
		{"just before midnight", "23:30", "00:15", 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedMinutes(mustTod(t, tt.start), mustTod(t, tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActualMinutes(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 125, ActualMinutes(start, start.Add(125*time.Minute)))
	// reversed timestamps keep the sign so Classify can flag them
	assert.Equal(t, -30, ActualMinutes(start, start.Add(-30*time.Minute)))
}

func TestClassify(t *testing.T) {
	const (
		expected  = 120
		tolerance = 15
		minPct    = 80
	)
	tests := []struct {
		name   string
		actual int
		want   DurationStatus
	}{
		{"within tolerance", 125, DurationVerified},
		{"exactly expected", 120, DurationVerified},
		{"lower tolerance bound", 105, DurationVerified},
		{"upper tolerance bound", 135, DurationVerified},
		{"below minimum percent", 90, DurationRejected},
		{"above minimum below tolerance", 100, DurationShort},
		{"ran long", 140, DurationExtended},
		{"negative actual", -10, DurationInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.actual, expected, tolerance, minPct))
		})
	}

	t.Run("zero expected is invalid", func(t *testing.T) {
		assert.Equal(t, DurationInvalid, Classify(60, 0, tolerance, minPct))
	})
}

func TestVerifyAndMeetsMinimum(t *testing.T) {
	assert.True(t, Verify(105, 120, 15))
	assert.False(t, Verify(104, 120, 15))
	// running long never fails verification
	assert.True(t, Verify(300, 120, 15))

	assert.True(t, MeetsMinimum(96, 120, 80))
	assert.False(t, MeetsMinimum(95, 120, 80))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "2h5m", FormatMinutes(125))
	assert.Equal(t, "0h45m", FormatMinutes(45))
	assert.Equal(t, "2h0m", FormatMinutes(120))
	assert.Equal(t, "-0h30m", FormatMinutes(-30))
}
