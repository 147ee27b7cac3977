package service

import (
	"time"

	"github.com/google/uuid"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	"schoolku_backend/internals/features/verification/sessions/model"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
	"schoolku_backend/internals/helpers/dbtime"
)

/* =======================================================
   Hand-rolled test doubles
   ======================================================= */

type mockSessionStore struct {
	sessions map[uuid.UUID]*model.TeachingSessionModel

	// forceStale makes every conditional write report a lost race.
	forceStale bool

	updateCalls         []map[string]any
	completedEnrollment []uuid.UUID
}

func newMockSessionStore(sessions ...*model.TeachingSessionModel) *mockSessionStore {
	m := &mockSessionStore{sessions: map[uuid.UUID]*model.TeachingSessionModel{}}
	for _, s := range sessions {
		m.sessions[s.TeachingSessionID] = s
	}
	return m
}

func (m *mockSessionStore) Get(id uuid.UUID) (*model.TeachingSessionModel, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrStaleState
}

func (m *mockSessionStore) UpdateIfStatus(id uuid.UUID, expected model.SessionStatus, updates map[string]any) (bool, error) {
	if m.forceStale {
		return false, nil
	}
	s, ok := m.sessions[id]
	if !ok || s.TeachingSessionStatus != expected {
		return false, nil
	}
	m.updateCalls = append(m.updateCalls, updates)
	return true, nil
}

func (m *mockSessionStore) CompleteEnrollment(enrollmentID uuid.UUID) error {
	m.completedEnrollment = append(m.completedEnrollment, enrollmentID)
	return nil
}

func (m *mockSessionStore) lastUpdate() map[string]any {
	if len(m.updateCalls) == 0 {
		return nil
	}
	return m.updateCalls[len(m.updateCalls)-1]
}

type auditEntry struct {
	ActorID     uuid.UUID
	ActionType  string
	TargetTable string
	TargetID    uuid.UUID
	Details     map[string]any
}

type mockAudit struct {
	entries []auditEntry
}

func (m *mockAudit) LogAction(actorID uuid.UUID, actionType, targetTable string, targetID uuid.UUID, details map[string]any) {
	m.entries = append(m.entries, auditEntry{actorID, actionType, targetTable, targetID, details})
}

func (m *mockAudit) actions() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.ActionType)
	}
	return out
}

/* =======================================================
   Fixtures — a school in central Delhi with a two-hour
   morning slot on 2026-03-10.
   ======================================================= */

const (
	fxSchoolLat = 28.6139
	fxSchoolLng = 77.2090

	// ~67 m north of the school, inside any sane radius
	fxNearLat = 28.614500
	fxNearLng = 77.2090

	// ~400 m north, beyond a 200 m geofence but under the suspicion threshold
	fxOutsideLat = 28.617500
	fxOutsideLng = 77.2090

	// ~5.6 km north, beyond the 1000 m suspicion threshold
	fxFarLat = 28.664000
	fxFarLng = 77.2090
)

var fxSlotDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func fxPtr[T any](v T) *T { return &v }

func fxSchool() *schoolModel.SchoolModel {
	return &schoolModel.SchoolModel{
		SchoolID:            uuid.New(),
		SchoolName:          "SDN 01 Menteng",
		SchoolGpsLatitude:   fxPtr(fxSchoolLat),
		SchoolGpsLongitude:  fxPtr(fxSchoolLng),
		SchoolAllowedRadius: 200,
	}
}

func fxSlot() *slotModel.TeachingSlotModel {
	start, _ := dbtime.Parse("08:00")
	end, _ := dbtime.Parse("10:00")
	return &slotModel.TeachingSlotModel{
		TeachingSlotID:        uuid.New(),
		TeachingSlotDate:      fxSlotDate,
		TeachingSlotStartTime: start,
		TeachingSlotEndTime:   end,
	}
}

func fxSettings() settingsService.Snapshot {
	return settingsService.FromValues(nil)
}

// fxSession returns a fresh pending session bound to the slot and school.
func fxSession(slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel) *model.TeachingSessionModel {
	return &model.TeachingSessionModel{
		TeachingSessionID:           uuid.New(),
		TeachingSessionTeacherID:    uuid.New(),
		TeachingSessionSchoolID:     school.SchoolID,
		TeachingSessionSlotID:       slot.TeachingSlotID,
		TeachingSessionEnrollmentID: uuid.New(),
		TeachingSessionStatus:       model.SessionPending,
	}
}

// fxWithStartEvidence seeds plausible start evidence taken at the slot start.
func fxWithStartEvidence(sess *model.TeachingSessionModel, lat, lng *float64) {
	taken := fxSlotDate.Add(8 * time.Hour)
	uploaded := taken.Add(2 * time.Minute)
	sess.TeachingSessionStartPhotoPath = fxPtr("uploads/start.jpg")
	sess.TeachingSessionStartGpsLatitude = lat
	sess.TeachingSessionStartGpsLongitude = lng
	sess.TeachingSessionStartPhotoTakenAt = &taken
	sess.TeachingSessionStartPhotoUploadedAt = &uploaded
	if lat != nil && lng != nil {
		sess.TeachingSessionStartDistanceFromSchool = fxPtr(distanceToSchool(*lat, *lng))
	}
	sess.TeachingSessionStatus = model.SessionStartSubmitted
}

// fxWithEndEvidence seeds end evidence for a 125 minute session.
func fxWithEndEvidence(sess *model.TeachingSessionModel, lat, lng *float64) {
	taken := fxSlotDate.Add(8*time.Hour + 125*time.Minute)
	uploaded := taken.Add(2 * time.Minute)
	sess.TeachingSessionEndPhotoPath = fxPtr("uploads/end.jpg")
	sess.TeachingSessionEndGpsLatitude = lat
	sess.TeachingSessionEndGpsLongitude = lng
	sess.TeachingSessionEndPhotoTakenAt = &taken
	sess.TeachingSessionEndPhotoUploadedAt = &uploaded
	if lat != nil && lng != nil {
		sess.TeachingSessionEndDistanceFromSchool = fxPtr(distanceToSchool(*lat, *lng))
	}
	sess.TeachingSessionStatus = model.SessionEndSubmitted
}

func distanceToSchool(lat, lng float64) float64 {
	// mirrors the Haversine used in production code, small fixture distances only
	const mPerDegLat = 111195.0
	d := (lat - fxSchoolLat) * mPerDegLat
	if d < 0 {
		d = -d
	}
	return d
}
