package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	geoService "schoolku_backend/internals/features/verification/geofence/service"
	"schoolku_backend/internals/features/verification/sessions/model"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

// fxNow is just after the fixture slot ends.
var fxNow = fxSlotDate.Add(10*time.Hour + 10*time.Minute)

func TestValidateSession_CleanSession(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
	fxWithEndEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))

	rep := ValidateSession(sess, slot, school, set, fxNow)

	assert.Empty(t, rep.Errors)
	assert.Empty(t, rep.Warnings)
	assert.False(t, rep.RequiresManualReview)
	assert.Equal(t, geoService.LocationMatched, rep.StartLocation.Status)
	assert.Equal(t, geoService.LocationMatched, rep.EndLocation.Status)
	assert.NotEmpty(t, rep.Info)
}

func TestValidateSession_MissingGPS(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, nil, nil)

	rep := ValidateSession(sess, slot, school, set, fxNow)
	require.Len(t, rep.Errors, 1)
	assert.Contains(t, rep.Errors[0], "no GPS data")
	assert.Equal(t, geoService.LocationUnknown, rep.StartLocation.Status)

	t.Run("tolerated when gps is not required", func(t *testing.T) {
		relaxed := settingsService.FromValues(map[string]string{
			settingsService.KeyRequireGPS: "false",
		})
		rep := ValidateSession(sess, slot, school, relaxed, fxNow)
		assert.Empty(t, rep.Errors)
	})
}

func TestValidateSession_SchoolWithoutLocation(t *testing.T) {
	slot, set := fxSlot(), fxSettings()
	school := fxSchool()
	school.SchoolGpsLatitude = nil
	school.SchoolGpsLongitude = nil
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))

	rep := ValidateSession(sess, slot, school, set, fxNow)

	// missing school geofence degrades to a warning, never an error
	assert.Empty(t, rep.Errors)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "no registered GPS location")
	assert.Equal(t, geoService.LocationUnknown, rep.StartLocation.Status)
}

func TestValidateSession_OutsideGeofence(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, fxPtr(fxOutsideLat), fxPtr(fxOutsideLng))

	rep := ValidateSession(sess, slot, school, set, fxNow)

	assert.Equal(t, geoService.LocationMismatched, rep.StartLocation.Status)
	require.NotEmpty(t, rep.Warnings)
	assert.Contains(t, rep.Warnings[0], "outside the 200 m geofence")
	assert.True(t, rep.RequiresManualReview)
}

func TestValidateSession_FutureDatedPhoto(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))

	// validate as if the photo were taken tomorrow
	early := fxSlotDate.Add(-20 * time.Hour)
	rep := ValidateSession(sess, slot, school, set, early)
	require.NotEmpty(t, rep.Errors)
	assert.Contains(t, rep.Errors[0], "timestamped in the future")
}

func TestValidateSession_DateMismatch(t *testing.T) {
	slot, school := fxSlot(), fxSchool()
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
	// photo taken three days after the slot date
	taken := fxSlotDate.Add(3*24*time.Hour + 8*time.Hour)
	sess.TeachingSessionStartPhotoTakenAt = &taken
	sess.TeachingSessionStartPhotoUploadedAt = fxPtr(taken.Add(time.Minute))
	now := taken.Add(time.Hour)

	t.Run("error under strict validation", func(t *testing.T) {
		rep := ValidateSession(sess, slot, school, fxSettings(), now)
		require.NotEmpty(t, rep.Errors)
		assert.Contains(t, rep.Errors[0], "does not match slot date")
	})

	t.Run("warning when strictness is off", func(t *testing.T) {
		relaxed := settingsService.FromValues(map[string]string{
			settingsService.KeyStrictDateValidation: "false",
		})
		rep := ValidateSession(sess, slot, school, relaxed, now)
		assert.Empty(t, rep.Errors)
		require.NotEmpty(t, rep.Warnings)
		assert.Contains(t, rep.Warnings[0], "does not match slot date")
	})

	t.Run("within tolerance matches", func(t *testing.T) {
		oneDayOff := fxSlotDate.Add(24*time.Hour + 8*time.Hour)
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		sess.TeachingSessionStartPhotoTakenAt = &oneDayOff
		sess.TeachingSessionStartPhotoUploadedAt = fxPtr(oneDayOff.Add(time.Minute))
		rep := ValidateSession(sess, slot, school, fxSettings(), oneDayOff.Add(time.Hour))
		assert.Empty(t, rep.Errors)
	})
}

func TestValidateSession_StalePhotoWarning(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()
	sess := fxSession(slot, school)
	fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
	// uploaded ten days after it was taken
	uploaded := sess.TeachingSessionStartPhotoTakenAt.Add(10 * 24 * time.Hour)
	sess.TeachingSessionStartPhotoUploadedAt = &uploaded

	rep := ValidateSession(sess, slot, school, set, uploaded)
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "days before upload") {
			found = true
		}
	}
	assert.True(t, found, "expected a photo-age warning, got %v", rep.Warnings)
}

func TestValidateSession_DurationBuckets(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()

	makeSession := func(actualMinutes int) (*model.TeachingSessionModel, time.Time) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		fxWithEndEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		endAt := sess.TeachingSessionStartPhotoTakenAt.Add(time.Duration(actualMinutes) * time.Minute)
		sess.TeachingSessionEndPhotoTakenAt = &endAt
		sess.TeachingSessionEndPhotoUploadedAt = fxPtr(endAt.Add(time.Minute))
		return sess, endAt.Add(time.Minute)
	}

	t.Run("verified duration is informational", func(t *testing.T) {
		sess, now := makeSession(125)
		rep := ValidateSession(sess, slot, school, set, now)
		assert.Equal(t, "verified", string(rep.DurationStatus))
		assert.Empty(t, rep.Errors)
	})

	t.Run("short duration warns", func(t *testing.T) {
		sess, now := makeSession(100)
		rep := ValidateSession(sess, slot, school, set, now)
		assert.Equal(t, "short", string(rep.DurationStatus))
		assert.NotEmpty(t, rep.Warnings)
		assert.True(t, rep.RequiresManualReview)
	})

	t.Run("rejected duration errors and blocks manual review flag", func(t *testing.T) {
		sess, now := makeSession(90)
		rep := ValidateSession(sess, slot, school, set, now)
		assert.Equal(t, "rejected", string(rep.DurationStatus))
		assert.NotEmpty(t, rep.Errors)
		// auto-reject fires, so the session is not flagged for manual review
		assert.False(t, rep.RequiresManualReview)
	})
}

func TestCheckAutoReject_PriorityOrder(t *testing.T) {
	slot, school := fxSlot(), fxSchool()

	t.Run("disabled gate wins over everything", func(t *testing.T) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxFarLat), fxPtr(fxFarLng))
		off := settingsService.FromValues(map[string]string{
			settingsService.KeyEnableAutoReject: "false",
		})
		assert.False(t, CheckAutoReject(sess, slot, school, off).Reject)
	})

	t.Run("suspicious distance", func(t *testing.T) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxFarLat), fxPtr(fxFarLng))
		v := CheckAutoReject(sess, slot, school, fxSettings())
		require.True(t, v.Reject)
		assert.Contains(t, v.Reason, "suspicious distance threshold")
	})

	t.Run("outside geofence but under threshold does not auto-reject", func(t *testing.T) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxOutsideLat), fxPtr(fxOutsideLng))
		assert.False(t, CheckAutoReject(sess, slot, school, fxSettings()).Reject)
	})

	t.Run("severe duration shortfall", func(t *testing.T) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		fxWithEndEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		endAt := sess.TeachingSessionStartPhotoTakenAt.Add(90 * time.Minute)
		sess.TeachingSessionEndPhotoTakenAt = &endAt
		v := CheckAutoReject(sess, slot, school, fxSettings())
		require.True(t, v.Reject)
		assert.Contains(t, v.Reason, "below 80%")
	})

	t.Run("strict date mismatch", func(t *testing.T) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		taken := fxSlotDate.Add(5 * 24 * time.Hour)
		sess.TeachingSessionStartPhotoTakenAt = &taken
		v := CheckAutoReject(sess, slot, school, fxSettings())
		require.True(t, v.Reject)
		assert.Contains(t, v.Reason, "does not match the slot date")
	})

	t.Run("missing gps", func(t *testing.T) {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, nil, nil)
		v := CheckAutoReject(sess, slot, school, fxSettings())
		require.True(t, v.Reject)
		assert.Contains(t, v.Reason, "no GPS data")
	})
}

func TestCheckAutoApprove(t *testing.T) {
	slot, school, set := fxSlot(), fxSchool(), fxSettings()

	clean := func() *model.TeachingSessionModel {
		sess := fxSession(slot, school)
		fxWithStartEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		fxWithEndEvidence(sess, fxPtr(fxNearLat), fxPtr(fxNearLng))
		return sess
	}

	t.Run("clean session auto-approves", func(t *testing.T) {
		assert.True(t, CheckAutoApprove(clean(), slot, school, set))
	})

	t.Run("auto-reject always wins", func(t *testing.T) {
		sess := clean()
		sess.TeachingSessionStartGpsLatitude = fxPtr(fxFarLat)
		sess.TeachingSessionStartGpsLongitude = fxPtr(fxFarLng)
		assert.False(t, CheckAutoApprove(sess, slot, school, set))
	})

	t.Run("start outside the auto-approve band", func(t *testing.T) {
		sess := clean()
		// ~160 m out: inside the geofence, outside the 100 m approval band
		sess.TeachingSessionStartGpsLatitude = fxPtr(28.615340)
		assert.False(t, CheckAutoApprove(sess, slot, school, set))
	})

	t.Run("short duration blocks auto-approve", func(t *testing.T) {
		sess := clean()
		endAt := sess.TeachingSessionStartPhotoTakenAt.Add(100 * time.Minute)
		sess.TeachingSessionEndPhotoTakenAt = &endAt
		assert.False(t, CheckAutoApprove(sess, slot, school, set))
	})

	t.Run("missing gps blocks unless explicitly allowed", func(t *testing.T) {
		sess := clean()
		sess.TeachingSessionEndGpsLatitude = nil
		sess.TeachingSessionEndGpsLongitude = nil
		assert.False(t, CheckAutoApprove(sess, slot, school, set))
	})
}
