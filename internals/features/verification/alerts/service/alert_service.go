// file: internals/features/verification/alerts/service/alert_service.go
package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	geoService "schoolku_backend/internals/features/verification/geofence/service"
	"schoolku_backend/internals/features/verification/sessions/model"
	sessionService "schoolku_backend/internals/features/verification/sessions/service"
	settingsService "schoolku_backend/internals/features/verification/settings/service"

	"github.com/google/uuid"
)

/* =======================================================
   Verification alerts — what the reviewer should look at
   before trusting a submission.
   ======================================================= */

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Alert struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Detail   map[string]any `json:"detail,omitempty"`
}

// BuildAlerts turns the validation report and auto verdicts of one session
// into reviewer-facing alerts, most severe first. Pure over its inputs.
func BuildAlerts(sess *model.TeachingSessionModel, slot *slotModel.TeachingSlotModel, school *schoolModel.SchoolModel, set settingsService.Snapshot, now time.Time) []Alert {
	alerts := []Alert{}

	if verdict := sessionService.CheckAutoReject(sess, slot, school, set); verdict.Reject {
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Code:     "auto_reject",
			Title:    "Automatic reject verdict",
			Message:  verdict.Reason,
		})
	}

	for _, side := range []struct {
		name string
		dist *float64
	}{
		{"start", sess.TeachingSessionStartDistanceFromSchool},
		{"end", sess.TeachingSessionEndDistanceFromSchool},
	} {
		if side.dist != nil && *side.dist > set.SuspiciousDistanceThreshold {
			alerts = append(alerts, Alert{
				Severity: SeverityCritical,
				Code:     "suspicious_distance",
				Title:    "Suspicious distance",
				Message:  fmt.Sprintf("The %s photo was taken %.0f m from the school, beyond the %.0f m suspicion threshold", side.name, *side.dist, set.SuspiciousDistanceThreshold),
				Detail:   map[string]any{"side": side.name, "distance_meters": *side.dist},
			})
		}
	}

	rep := sessionService.ValidateSession(sess, slot, school, set, now)
	for _, e := range rep.Errors {
		alerts = append(alerts, Alert{
			Severity: SeverityCritical,
			Code:     "validation_error",
			Title:    "Validation error",
			Message:  e,
		})
	}
	for _, w := range rep.Warnings {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Code:     "validation_warning",
			Title:    "Validation warning",
			Message:  w,
		})
	}
	for _, i := range rep.Info {
		alerts = append(alerts, Alert{
			Severity: SeverityInfo,
			Code:     "validation_info",
			Title:    "Note",
			Message:  i,
		})
	}

	if rep.StartLocation.Status == geoService.LocationMismatched || rep.EndLocation.Status == geoService.LocationMismatched {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Code:     "location_mismatch",
			Title:    "Photo outside geofence",
			Message:  "At least one photo was taken outside the school's allowed radius",
			Detail: map[string]any{
				"start": rep.StartLocation,
				"end":   rep.EndLocation,
			},
		})
	}

	return alerts
}

/* =======================================================
   Dashboard summary — counts over sessions awaiting review
   ======================================================= */

type Summary struct {
	AwaitingReview int64 `json:"awaiting_review"`
	Mismatched     int64 `json:"mismatched"`
	NoGPS          int64 `json:"no_gps"`
	DateMismatch   int64 `json:"date_mismatch"`
	Suspicious     int64 `json:"suspicious"`
}

type AlertService struct {
	DB       *gorm.DB
	Settings *settingsService.Service
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{DB: db, Settings: settingsService.New(db)}
}

// reviewStatuses are the states in which a session sits in an admin queue.
var reviewStatuses = []model.SessionStatus{
	model.SessionStartSubmitted,
	model.SessionEndSubmitted,
}

func (s *AlertService) reviewScope(schoolID uuid.UUID) *gorm.DB {
	return s.DB.Model(&model.TeachingSessionModel{}).
		Where("teaching_session_school_id = ?", schoolID).
		Where("teaching_session_status IN ?", reviewStatuses)
}

// SchoolSummary counts the review queue's red flags for one school.
// Geofence membership is resolved in SQL against the school's own radius so
// the counts stay cheap at queue size.
func (s *AlertService) SchoolSummary(schoolID uuid.UUID) (Summary, error) {
	var out Summary
	snap, err := s.Settings.Load()
	if err != nil {
		return out, err
	}

	var school schoolModel.SchoolModel
	if err := s.DB.First(&school, "school_id = ?", schoolID).Error; err != nil {
		return out, err
	}
	radius := school.SchoolAllowedRadius
	if radius <= 0 {
		radius = snap.ValidationRadiusMeters
	}

	if err := s.reviewScope(schoolID).Count(&out.AwaitingReview).Error; err != nil {
		return out, err
	}
	if err := s.reviewScope(schoolID).
		Where("teaching_session_start_distance_from_school > ? OR teaching_session_end_distance_from_school > ?", radius, radius).
		Count(&out.Mismatched).Error; err != nil {
		return out, err
	}
	if err := s.reviewScope(schoolID).
		Where("teaching_session_start_gps_latitude IS NULL OR teaching_session_start_gps_longitude IS NULL").
		Count(&out.NoGPS).Error; err != nil {
		return out, err
	}
	if err := s.reviewScope(schoolID).
		Joins("JOIN teaching_slots ON teaching_slots.teaching_slot_id = teaching_sessions.teaching_session_slot_id").
		Where("teaching_session_start_photo_taken_at IS NOT NULL").
		Where("ABS(teaching_sessions.teaching_session_start_photo_taken_at::date - teaching_slots.teaching_slot_date::date) > ?", snap.DateToleranceDays).
		Count(&out.DateMismatch).Error; err != nil {
		return out, err
	}
	if err := s.reviewScope(schoolID).
		Where("teaching_session_start_distance_from_school > ? OR teaching_session_end_distance_from_school > ?",
			snap.SuspiciousDistanceThreshold, snap.SuspiciousDistanceThreshold).
		Count(&out.Suspicious).Error; err != nil {
		return out, err
	}
	return out, nil
}
