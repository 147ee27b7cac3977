package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	assert.Zero(t, DistanceMeters(28.6139, 77.2090, 28.6139, 77.2090))
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := DistanceMeters(28.6139, 77.2090, 28.7041, 77.1025)
	b := DistanceMeters(28.7041, 77.1025, 28.6139, 77.2090)
	assert.InDelta(t, a, b, 0.000001)
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expected               float64
		tolerance              float64
	}{
		{
			// one degree of latitude is ~111.2 km everywhere
			name: "one degree latitude",
			lat1: 0, lng1: 0, lat2: 1, lng2: 0,
			expected:  111195,
			tolerance: 100,
		},
		{
			// one degree of longitude at the equator
			name: "one degree longitude at equator",
			lat1: 0, lng1: 0, lat2: 0, lng2: 1,
			expected:  111195,
			tolerance: 100,
		},
		{
			// ~100 m north of the reference point
			name: "hundred meters",
			lat1: 28.6139, lng1: 77.2090, lat2: 28.614799, lng2: 77.2090,
			expected:  100,
			tolerance: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestClassify(t *testing.T) {
	schoolLat, schoolLng := 28.6139, 77.2090
	nearLat, nearLng := 28.614500, 77.209000   // ~67 m north
	farLat, farLng := 28.623000, 77.209000     // ~1 km north

	f := func(v float64) *float64 { return &v }

	t.Run("photo without gps is unknown", func(t *testing.T) {
		cls := Classify(nil, nil, &schoolLat, &schoolLng, 200)
		assert.Equal(t, LocationUnknown, cls.Status)
		assert.Nil(t, cls.Distance)
	})

	t.Run("school without gps is unknown", func(t *testing.T) {
		cls := Classify(f(nearLat), f(nearLng), nil, nil, 200)
		assert.Equal(t, LocationUnknown, cls.Status)
		assert.Nil(t, cls.Distance)
	})

	t.Run("inside radius is matched", func(t *testing.T) {
		cls := Classify(f(nearLat), f(nearLng), &schoolLat, &schoolLng, 200)
		assert.Equal(t, LocationMatched, cls.Status)
		if assert.NotNil(t, cls.Distance) {
			assert.Less(t, *cls.Distance, 200.0)
		}
	})

	t.Run("outside radius is mismatched", func(t *testing.T) {
		cls := Classify(f(farLat), f(farLng), &schoolLat, &schoolLng, 200)
		assert.Equal(t, LocationMismatched, cls.Status)
		if assert.NotNil(t, cls.Distance) {
			assert.Greater(t, *cls.Distance, 200.0)
		}
	})

	t.Run("distance exactly at radius is matched", func(t *testing.T) {
		d := DistanceMeters(nearLat, nearLng, schoolLat, schoolLng)
		cls := Classify(f(nearLat), f(nearLng), &schoolLat, &schoolLng, d)
		assert.Equal(t, LocationMatched, cls.Status)
	})
}
