package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	"schoolku_backend/internals/features/verification/sessions/model"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
	"schoolku_backend/internals/helpers/dbtime"
)

const (
	schoolLat = 28.6139
	schoolLng = 77.2090
	nearLat   = 28.614500 // ~67 m
	farLat    = 28.664000 // ~5.6 km
)

var slotDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func testSchool() *schoolModel.SchoolModel {
	return &schoolModel.SchoolModel{
		SchoolID:            uuid.New(),
		SchoolName:          "SDN 01 Menteng",
		SchoolGpsLatitude:   ptr(schoolLat),
		SchoolGpsLongitude:  ptr(schoolLng),
		SchoolAllowedRadius: 200,
	}
}

func testSlot() *slotModel.TeachingSlotModel {
	start, _ := dbtime.Parse("08:00")
	end, _ := dbtime.Parse("10:00")
	return &slotModel.TeachingSlotModel{
		TeachingSlotID:        uuid.New(),
		TeachingSlotDate:      slotDate,
		TeachingSlotStartTime: start,
		TeachingSlotEndTime:   end,
	}
}

func testSession(lat float64, school *schoolModel.SchoolModel, slot *slotModel.TeachingSlotModel) *model.TeachingSessionModel {
	taken := slotDate.Add(8 * time.Hour)
	endTaken := taken.Add(125 * time.Minute)
	return &model.TeachingSessionModel{
		TeachingSessionID:                    uuid.New(),
		TeachingSessionTeacherID:             uuid.New(),
		TeachingSessionSchoolID:              school.SchoolID,
		TeachingSessionSlotID:                slot.TeachingSlotID,
		TeachingSessionEnrollmentID:          uuid.New(),
		TeachingSessionStatus:                model.SessionEndSubmitted,
		TeachingSessionStartPhotoPath:        ptr("uploads/start.jpg"),
		TeachingSessionStartGpsLatitude:      ptr(lat),
		TeachingSessionStartGpsLongitude:     ptr(schoolLng),
		TeachingSessionStartPhotoTakenAt:     &taken,
		TeachingSessionStartPhotoUploadedAt:  ptr(taken.Add(time.Minute)),
		TeachingSessionEndPhotoPath:          ptr("uploads/end.jpg"),
		TeachingSessionEndGpsLatitude:        ptr(nearLat),
		TeachingSessionEndGpsLongitude:       ptr(schoolLng),
		TeachingSessionEndPhotoTakenAt:       &endTaken,
		TeachingSessionEndPhotoUploadedAt:    ptr(endTaken.Add(time.Minute)),
	}
}

func TestBuildAlerts_CleanSessionHasNoWarnings(t *testing.T) {
	school, slot := testSchool(), testSlot()
	sess := testSession(nearLat, school, slot)
	now := slotDate.Add(11 * time.Hour)

	alerts := BuildAlerts(sess, slot, school, settingsService.FromValues(nil), now)

	for _, a := range alerts {
		assert.NotEqual(t, SeverityCritical, a.Severity, "unexpected critical alert: %+v", a)
		assert.NotEqual(t, SeverityWarning, a.Severity, "unexpected warning alert: %+v", a)
	}
}

func TestBuildAlerts_SuspiciousDistance(t *testing.T) {
	school, slot := testSchool(), testSlot()
	sess := testSession(farLat, school, slot)
	// stored distance mirrors what submission would have computed
	sess.TeachingSessionStartDistanceFromSchool = ptr(5570.0)
	now := slotDate.Add(11 * time.Hour)

	alerts := BuildAlerts(sess, slot, school, settingsService.FromValues(nil), now)
	require.NotEmpty(t, alerts)

	// most severe first: the auto-reject verdict leads
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "auto_reject", alerts[0].Code)

	var codes []string
	for _, a := range alerts {
		codes = append(codes, a.Code)
	}
	assert.Contains(t, codes, "suspicious_distance")
	assert.Contains(t, codes, "location_mismatch")
}

func TestBuildAlerts_MissingGPS(t *testing.T) {
	school, slot := testSchool(), testSlot()
	sess := testSession(nearLat, school, slot)
	sess.TeachingSessionStartGpsLatitude = nil
	sess.TeachingSessionStartGpsLongitude = nil
	sess.TeachingSessionStartDistanceFromSchool = nil
	now := slotDate.Add(11 * time.Hour)

	alerts := BuildAlerts(sess, slot, school, settingsService.FromValues(nil), now)

	var sawCritical bool
	for _, a := range alerts {
		if a.Severity == SeverityCritical {
			sawCritical = true
		}
	}
	assert.True(t, sawCritical, "missing GPS should raise a critical alert")
}
