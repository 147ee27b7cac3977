// file: internals/features/verification/sessions/service/session_service.go
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	durationService "schoolku_backend/internals/features/verification/duration/service"
	geoService "schoolku_backend/internals/features/verification/geofence/service"
	"schoolku_backend/internals/features/verification/sessions/model"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

// ActionLogger is the audit hook fired after every committed transition.
// Implementations must be fire-and-forget: a logging failure never rolls
// back the transition that triggered it.
type ActionLogger interface {
	LogAction(actorID uuid.UUID, actionType, targetTable string, targetID uuid.UUID, details map[string]any)
}

// systemActor marks transitions made by the engine itself (auto verdicts).
var systemActor = uuid.Nil

/* =======================================================
   SessionService — one verification decision per call,
   synchronous, no state beyond the session row.
   ======================================================= */

type SessionService struct {
	Machine *StateMachine
	Audit   ActionLogger
}

func NewSessionService(store SessionStore, audit ActionLogger) *SessionService {
	return &SessionService{
		Machine: NewStateMachine(store),
		Audit:   audit,
	}
}

// Evidence is one submitted photo's metadata. The photo file itself is
// handled by the upload collaborator; only its path reaches this engine.
type Evidence struct {
	PhotoPath  string
	GpsLat     *float64
	GpsLng     *float64
	TakenAt    time.Time
	UploadedAt time.Time
}

// SubmissionResult is returned to the teacher-facing flow after a photo
// submission: the new status plus the validation report and any automatic
// verdict that fired.
type SubmissionResult struct {
	Status       model.SessionStatus `json:"status"`
	Report       Report              `json:"report"`
	AutoRejected bool                `json:"auto_rejected"`
	AutoApproved bool                `json:"auto_approved"`
	RejectReason string              `json:"reject_reason,omitempty"`
}

func evidenceDistance(ev Evidence, school *schoolModel.SchoolModel) *float64 {
	// distance is stored iff both the photo GPS and the school GPS are known
	if ev.GpsLat == nil || ev.GpsLng == nil || school == nil || !school.HasLocation() {
		return nil
	}
	d := geoService.DistanceMeters(*ev.GpsLat, *ev.GpsLng, *school.SchoolGpsLatitude, *school.SchoolGpsLongitude)
	return &d
}

// SubmitStartPhoto stores the start evidence and moves the session to
// start_submitted. An auto-reject verdict on the fresh evidence immediately
// rejects the session.
func (s *SessionService) SubmitStartPhoto(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot, ev Evidence, now time.Time) (*SubmissionResult, error) {
	dist := evidenceDistance(ev, school)
	updates := map[string]any{
		"teaching_session_start_photo_path":           ev.PhotoPath,
		"teaching_session_start_gps_latitude":         ev.GpsLat,
		"teaching_session_start_gps_longitude":        ev.GpsLng,
		"teaching_session_start_photo_taken_at":       ev.TakenAt,
		"teaching_session_start_photo_uploaded_at":    ev.UploadedAt,
		"teaching_session_start_distance_from_school": dist,
	}
	if _, err := s.Machine.Apply(sess, ActionSubmitStartPhoto, updates); err != nil {
		return nil, err
	}
	applyStartEvidence(sess, ev, dist)
	s.Audit.LogAction(sess.TeachingSessionTeacherID, "submit_start_photo", "teaching_sessions", sess.TeachingSessionID, map[string]any{
		"distance_from_school": dist,
	})

	res := &SubmissionResult{Report: ValidateSession(sess, slot, school, set, now)}
	if verdict := CheckAutoReject(sess, slot, school, set); verdict.Reject {
		if err := s.autoReject(sess, verdict, now); err != nil {
			return nil, err
		}
		res.AutoRejected = true
		res.RejectReason = verdict.Reason
	}
	res.Status = sess.TeachingSessionStatus
	return res, nil
}

// SubmitEndPhoto stores the end evidence, computes both durations and moves
// the session to end_submitted; then the automatic verdicts run — reject
// first, approve only if reject did not fire.
func (s *SessionService) SubmitEndPhoto(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot, ev Evidence, now time.Time) (*SubmissionResult, error) {
	dist := evidenceDistance(ev, school)
	expected := durationService.ExpectedMinutes(slot.TeachingSlotStartTime, slot.TeachingSlotEndTime)

	updates := map[string]any{
		"teaching_session_end_photo_path":            ev.PhotoPath,
		"teaching_session_end_gps_latitude":          ev.GpsLat,
		"teaching_session_end_gps_longitude":         ev.GpsLng,
		"teaching_session_end_photo_taken_at":        ev.TakenAt,
		"teaching_session_end_photo_uploaded_at":     ev.UploadedAt,
		"teaching_session_end_distance_from_school":  dist,
		"teaching_session_expected_duration_minutes": expected,
	}
	// actual duration is derivable iff both photo timestamps are known
	var actual *int
	if sess.TeachingSessionStartPhotoTakenAt != nil {
		a := durationService.ActualMinutes(*sess.TeachingSessionStartPhotoTakenAt, ev.TakenAt)
		actual = &a
		updates["teaching_session_actual_duration_minutes"] = a
	}

	if _, err := s.Machine.Apply(sess, ActionSubmitEndPhoto, updates); err != nil {
		return nil, err
	}
	applyEndEvidence(sess, ev, dist, &expected, actual)
	s.Audit.LogAction(sess.TeachingSessionTeacherID, "submit_end_photo", "teaching_sessions", sess.TeachingSessionID, map[string]any{
		"distance_from_school":      dist,
		"actual_duration_minutes":   actual,
		"expected_duration_minutes": expected,
	})

	res := &SubmissionResult{Report: ValidateSession(sess, slot, school, set, now)}
	if verdict := CheckAutoReject(sess, slot, school, set); verdict.Reject {
		if err := s.autoReject(sess, verdict, now); err != nil {
			return nil, err
		}
		res.AutoRejected = true
		res.RejectReason = verdict.Reason
	} else if CheckAutoApprove(sess, slot, school, set) {
		if err := s.autoApprove(sess, now); err != nil {
			return nil, err
		}
		res.AutoApproved = true
	}
	res.Status = sess.TeachingSessionStatus
	return res, nil
}

// ErrAutoRejectBlocked: a manual approval hit an active auto-reject verdict
// and was not forced. Structured policy rejection, not a storage failure.
type ErrAutoRejectBlocked struct {
	Reason string
}

func (e *ErrAutoRejectBlocked) Error() string {
	return fmt.Sprintf("auto-reject verdict active: %s (approval requires an explicit override)", e.Reason)
}

// ApproveStart is the admin approval of the start evidence.
func (s *SessionService) ApproveStart(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot, adminID uuid.UUID, remarks *string, force bool, now time.Time) error {
	if verdict := CheckAutoReject(sess, slot, school, set); verdict.Reject && !force {
		return &ErrAutoRejectBlocked{Reason: verdict.Reason}
	}
	updates := verifierUpdates(sess, adminID, remarks, now)
	if _, err := s.Machine.Apply(sess, ActionApproveStart, updates); err != nil {
		return err
	}
	s.Audit.LogAction(adminID, "approve_start", "teaching_sessions", sess.TeachingSessionID, auditRemarks(remarks, force))
	return nil
}

// Approve is the full admin approval; it also marks the enrollment
// completed. force acknowledges an active auto-reject verdict.
func (s *SessionService) Approve(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot, adminID uuid.UUID, remarks *string, force bool, now time.Time) error {
	if verdict := CheckAutoReject(sess, slot, school, set); verdict.Reject && !force {
		return &ErrAutoRejectBlocked{Reason: verdict.Reason}
	}
	updates := verifierUpdates(sess, adminID, remarks, now)
	if _, err := s.Machine.Apply(sess, ActionApprove, updates); err != nil {
		return err
	}
	// enrollment completion is best-effort ordering: the session row is the
	// source of truth, the enrollment flag follows it
	if err := s.Machine.Store.CompleteEnrollment(sess.TeachingSessionEnrollmentID); err != nil {
		return err
	}
	s.Audit.LogAction(adminID, "approve", "teaching_sessions", sess.TeachingSessionID, auditRemarks(remarks, force))
	return nil
}

// Reject refuses the session. Remarks are mandatory; a second reject on the
// same session fails with ErrStaleState/ErrInvalidTransition and leaves the
// first verifier's fields untouched.
func (s *SessionService) Reject(sess *model.TeachingSessionModel, adminID uuid.UUID, remarks string, now time.Time) error {
	if strings.TrimSpace(remarks) == "" {
		return ErrRemarksRequired
	}
	updates := verifierUpdates(sess, adminID, &remarks, now)
	if _, err := s.Machine.Apply(sess, ActionReject, updates); err != nil {
		return err
	}
	s.Audit.LogAction(adminID, "reject", "teaching_sessions", sess.TeachingSessionID, map[string]any{"remarks": remarks})
	return nil
}

// RequestResubmit re-opens photo submission. Evidence-clearing policy:
// from end_submitted only the end evidence is cleared (back to
// start_approved); from any earlier state both evidence sets are cleared
// (back to pending). One rule, applied everywhere.
func (s *SessionService) RequestResubmit(sess *model.TeachingSessionModel, adminID uuid.UUID, remarks *string, now time.Time) error {
	updates := verifierUpdates(sess, adminID, remarks, now)

	clearEnd := map[string]any{
		"teaching_session_end_photo_path":            nil,
		"teaching_session_end_gps_latitude":          nil,
		"teaching_session_end_gps_longitude":         nil,
		"teaching_session_end_photo_taken_at":        nil,
		"teaching_session_end_photo_uploaded_at":     nil,
		"teaching_session_end_distance_from_school":  nil,
		"teaching_session_actual_duration_minutes":   nil,
		"teaching_session_expected_duration_minutes": nil,
	}
	for k, v := range clearEnd {
		updates[k] = v
	}
	if sess.TeachingSessionStatus != model.SessionEndSubmitted {
		clearStart := map[string]any{
			"teaching_session_start_photo_path":           nil,
			"teaching_session_start_gps_latitude":         nil,
			"teaching_session_start_gps_longitude":        nil,
			"teaching_session_start_photo_taken_at":       nil,
			"teaching_session_start_photo_uploaded_at":    nil,
			"teaching_session_start_distance_from_school": nil,
		}
		for k, v := range clearStart {
			updates[k] = v
		}
	}

	if _, err := s.Machine.Apply(sess, ActionRequestResubmit, updates); err != nil {
		return err
	}
	s.Audit.LogAction(adminID, "request_resubmit", "teaching_sessions", sess.TeachingSessionID, auditRemarks(remarks, false))
	return nil
}

/* =======================================================
   internals
   ======================================================= */

func (s *SessionService) autoReject(sess *model.TeachingSessionModel, verdict RejectVerdict, now time.Time) error {
	remarks := "auto-rejected: " + verdict.Reason
	updates := verifierUpdates(sess, systemActor, &remarks, now)
	if _, err := s.Machine.Apply(sess, ActionReject, updates); err != nil {
		return err
	}
	s.Audit.LogAction(systemActor, "auto_reject", "teaching_sessions", sess.TeachingSessionID, map[string]any{"reason": verdict.Reason})
	return nil
}

func (s *SessionService) autoApprove(sess *model.TeachingSessionModel, now time.Time) error {
	remarks := "auto-approved"
	updates := verifierUpdates(sess, systemActor, &remarks, now)
	if _, err := s.Machine.Apply(sess, ActionApprove, updates); err != nil {
		return err
	}
	if err := s.Machine.Store.CompleteEnrollment(sess.TeachingSessionEnrollmentID); err != nil {
		return err
	}
	s.Audit.LogAction(systemActor, "auto_approve", "teaching_sessions", sess.TeachingSessionID, nil)
	return nil
}

// verifierUpdates builds the verifier columns and appends to the remarks
// history. The conditional status write guards the whole map, so computing
// the appended array in Go is race-safe.
func verifierUpdates(sess *model.TeachingSessionModel, actorID uuid.UUID, remarks *string, now time.Time) map[string]any {
	updates := map[string]any{
		"teaching_session_verified_at": now,
	}
	if actorID != systemActor {
		updates["teaching_session_verified_by"] = actorID
	}
	if remarks != nil && strings.TrimSpace(*remarks) != "" {
		r := strings.TrimSpace(*remarks)
		updates["teaching_session_admin_remarks"] = r
		history := append(append([]string{}, sess.TeachingSessionRemarksLog...), fmt.Sprintf("%s %s", now.Format(time.RFC3339), r))
		updates["teaching_session_remarks_log"] = pq.StringArray(history)
	}
	return updates
}

func auditRemarks(remarks *string, force bool) map[string]any {
	details := map[string]any{}
	if remarks != nil {
		details["remarks"] = *remarks
	}
	if force {
		details["forced_override"] = true
	}
	return details
}

func applyStartEvidence(sess *model.TeachingSessionModel, ev Evidence, dist *float64) {
	sess.TeachingSessionStartPhotoPath = &ev.PhotoPath
	sess.TeachingSessionStartGpsLatitude = ev.GpsLat
	sess.TeachingSessionStartGpsLongitude = ev.GpsLng
	taken, uploaded := ev.TakenAt, ev.UploadedAt
	sess.TeachingSessionStartPhotoTakenAt = &taken
	sess.TeachingSessionStartPhotoUploadedAt = &uploaded
	sess.TeachingSessionStartDistanceFromSchool = dist
}

func applyEndEvidence(sess *model.TeachingSessionModel, ev Evidence, dist *float64, expected, actual *int) {
	sess.TeachingSessionEndPhotoPath = &ev.PhotoPath
	sess.TeachingSessionEndGpsLatitude = ev.GpsLat
	sess.TeachingSessionEndGpsLongitude = ev.GpsLng
	taken, uploaded := ev.TakenAt, ev.UploadedAt
	sess.TeachingSessionEndPhotoTakenAt = &taken
	sess.TeachingSessionEndPhotoUploadedAt = &uploaded
	sess.TeachingSessionEndDistanceFromSchool = dist
	sess.TeachingSessionExpectedDurationMinutes = expected
	sess.TeachingSessionActualDurationMinutes = actual
}
