// file: internals/features/verification/sessions/model/teaching_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

/* =======================================================
   Enum session status (matches teaching_session_status_enum in DB)
   ======================================================= */

type SessionStatus string

const (
	SessionPending        SessionStatus = "pending"
	SessionStartSubmitted SessionStatus = "start_submitted"
	SessionStartApproved  SessionStatus = "start_approved"
	SessionEndSubmitted   SessionStatus = "end_submitted"
	SessionApproved       SessionStatus = "approved"
	SessionRejected       SessionStatus = "rejected"
)

// IsTerminal reports whether the status ends the normal flow.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionApproved || s == SessionRejected
}

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionStartSubmitted, SessionStartApproved,
		SessionEndSubmitted, SessionApproved, SessionRejected:
		return true
	}
	return false
}

/* =======================================================
   TeachingSessionModel — map to teaching_sessions
   One attendance record for one enrolled teacher at one
   scheduled slot. Created pending when the enrollment is
   booked; never physically deleted by this engine.
   ======================================================= */

type TeachingSessionModel struct {
	// PK + immutable identity
	TeachingSessionID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teaching_session_id" json:"teaching_session_id"`
	TeachingSessionTeacherID    uuid.UUID `gorm:"type:uuid;not null;column:teaching_session_teacher_id" json:"teaching_session_teacher_id"`
	TeachingSessionSchoolID     uuid.UUID `gorm:"type:uuid;not null;column:teaching_session_school_id" json:"teaching_session_school_id"`
	TeachingSessionSlotID       uuid.UUID `gorm:"type:uuid;not null;column:teaching_session_slot_id" json:"teaching_session_slot_id"`
	TeachingSessionEnrollmentID uuid.UUID `gorm:"type:uuid;not null;column:teaching_session_enrollment_id" json:"teaching_session_enrollment_id"`

	// Start evidence — all nullable until submitted
	TeachingSessionStartPhotoPath         *string    `gorm:"type:text;column:teaching_session_start_photo_path" json:"teaching_session_start_photo_path,omitempty"`
	TeachingSessionStartGpsLatitude       *float64   `gorm:"type:decimal(9,6);column:teaching_session_start_gps_latitude" json:"teaching_session_start_gps_latitude,omitempty"`
	TeachingSessionStartGpsLongitude      *float64   `gorm:"type:decimal(9,6);column:teaching_session_start_gps_longitude" json:"teaching_session_start_gps_longitude,omitempty"`
	TeachingSessionStartPhotoTakenAt      *time.Time `gorm:"column:teaching_session_start_photo_taken_at" json:"teaching_session_start_photo_taken_at,omitempty"`
	TeachingSessionStartPhotoUploadedAt   *time.Time `gorm:"column:teaching_session_start_photo_uploaded_at" json:"teaching_session_start_photo_uploaded_at,omitempty"`
	TeachingSessionStartDistanceFromSchool *float64  `gorm:"type:decimal(10,2);column:teaching_session_start_distance_from_school" json:"teaching_session_start_distance_from_school,omitempty"`

	// End evidence — all nullable until submitted
	TeachingSessionEndPhotoPath         *string    `gorm:"type:text;column:teaching_session_end_photo_path" json:"teaching_session_end_photo_path,omitempty"`
	TeachingSessionEndGpsLatitude       *float64   `gorm:"type:decimal(9,6);column:teaching_session_end_gps_latitude" json:"teaching_session_end_gps_latitude,omitempty"`
	TeachingSessionEndGpsLongitude      *float64   `gorm:"type:decimal(9,6);column:teaching_session_end_gps_longitude" json:"teaching_session_end_gps_longitude,omitempty"`
	TeachingSessionEndPhotoTakenAt      *time.Time `gorm:"column:teaching_session_end_photo_taken_at" json:"teaching_session_end_photo_taken_at,omitempty"`
	TeachingSessionEndPhotoUploadedAt   *time.Time `gorm:"column:teaching_session_end_photo_uploaded_at" json:"teaching_session_end_photo_uploaded_at,omitempty"`
	TeachingSessionEndDistanceFromSchool *float64  `gorm:"type:decimal(10,2);column:teaching_session_end_distance_from_school" json:"teaching_session_end_distance_from_school,omitempty"`

	// Derived — present iff both photo timestamps / both GPS points are known
	TeachingSessionActualDurationMinutes   *int `gorm:"column:teaching_session_actual_duration_minutes" json:"teaching_session_actual_duration_minutes,omitempty"`
	TeachingSessionExpectedDurationMinutes *int `gorm:"column:teaching_session_expected_duration_minutes" json:"teaching_session_expected_duration_minutes,omitempty"`

	// Approval state
	TeachingSessionStatus       SessionStatus  `gorm:"type:text;not null;default:'pending';column:teaching_session_status" json:"teaching_session_status"`
	TeachingSessionVerifiedBy   *uuid.UUID     `gorm:"type:uuid;column:teaching_session_verified_by" json:"teaching_session_verified_by,omitempty"`
	TeachingSessionVerifiedAt   *time.Time     `gorm:"column:teaching_session_verified_at" json:"teaching_session_verified_at,omitempty"`
	TeachingSessionAdminRemarks *string        `gorm:"type:text;column:teaching_session_admin_remarks" json:"teaching_session_admin_remarks,omitempty"`
	TeachingSessionRemarksLog   pq.StringArray `gorm:"type:text[];column:teaching_session_remarks_log" json:"teaching_session_remarks_log,omitempty"`

	TeachingSessionCreatedAt time.Time      `gorm:"column:teaching_session_created_at;not null;autoCreateTime" json:"teaching_session_created_at"`
	TeachingSessionUpdatedAt time.Time      `gorm:"column:teaching_session_updated_at;not null;autoUpdateTime" json:"teaching_session_updated_at"`
	TeachingSessionDeletedAt gorm.DeletedAt `gorm:"column:teaching_session_deleted_at;index" json:"teaching_session_deleted_at,omitempty"`
}

func (TeachingSessionModel) TableName() string { return "teaching_sessions" }

// HasStartGPS reports whether the start photo carries a GPS point.
func (m *TeachingSessionModel) HasStartGPS() bool {
	return m.TeachingSessionStartGpsLatitude != nil && m.TeachingSessionStartGpsLongitude != nil
}

// HasEndGPS reports whether the end photo carries a GPS point.
func (m *TeachingSessionModel) HasEndGPS() bool {
	return m.TeachingSessionEndGpsLatitude != nil && m.TeachingSessionEndGpsLongitude != nil
}

// HasStartEvidence reports whether a start photo has been submitted.
func (m *TeachingSessionModel) HasStartEvidence() bool {
	return m.TeachingSessionStartPhotoPath != nil
}

// HasEndEvidence reports whether an end photo has been submitted.
func (m *TeachingSessionModel) HasEndEvidence() bool {
	return m.TeachingSessionEndPhotoPath != nil
}
