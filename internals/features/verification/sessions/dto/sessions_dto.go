// file: internals/features/verification/sessions/dto/sessions_dto.go
package dto

import (
	"time"

	"schoolku_backend/internals/features/verification/sessions/model"
)

/* =======================================================
   Requests
   ======================================================= */

// SubmitPhotoRequest carries one photo submission (start or end). GPS is
// optional on the wire; whether a missing GPS is tolerated is a policy
// decision made downstream, not a validation failure here.
type SubmitPhotoRequest struct {
	PhotoPath string     `json:"photo_path" validate:"required"`
	GpsLat    *float64   `json:"gps_lat" validate:"omitempty,gte=-90,lte=90"`
	GpsLng    *float64   `json:"gps_lng" validate:"omitempty,gte=-180,lte=180"`
	TakenAt   *time.Time `json:"taken_at" validate:"required"`
}

// DecisionRequest is the admin verdict payload. Remarks are required for
// reject, optional elsewhere. Force acknowledges an active auto-reject
// verdict on approval.
type DecisionRequest struct {
	Remarks *string `json:"remarks" validate:"omitempty,max=2000"`
	Force   bool    `json:"force"`
}

/* =======================================================
   Responses
   ======================================================= */

type SessionResponse struct {
	TeachingSessionID string `json:"teaching_session_id"`
	TeacherID         string `json:"teacher_id"`
	SchoolID          string `json:"school_id"`
	SlotID            string `json:"slot_id"`
	EnrollmentID      string `json:"enrollment_id"`

	Status       model.SessionStatus `json:"status"`
	VerifiedBy   *string             `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time          `json:"verified_at,omitempty"`
	AdminRemarks *string             `json:"admin_remarks,omitempty"`
	RemarksLog   []string            `json:"remarks_log,omitempty"`

	StartEvidence *EvidenceResponse `json:"start_evidence,omitempty"`
	EndEvidence   *EvidenceResponse `json:"end_evidence,omitempty"`

	ActualDurationMinutes   *int `json:"actual_duration_minutes,omitempty"`
	ExpectedDurationMinutes *int `json:"expected_duration_minutes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EvidenceResponse struct {
	PhotoPath          string     `json:"photo_path"`
	GpsLat             *float64   `json:"gps_lat,omitempty"`
	GpsLng             *float64   `json:"gps_lng,omitempty"`
	TakenAt            *time.Time `json:"taken_at,omitempty"`
	UploadedAt         *time.Time `json:"uploaded_at,omitempty"`
	DistanceFromSchool *float64   `json:"distance_from_school,omitempty"`
}

func FromModel(m *model.TeachingSessionModel) SessionResponse {
	resp := SessionResponse{
		TeachingSessionID: m.TeachingSessionID.String(),
		TeacherID:         m.TeachingSessionTeacherID.String(),
		SchoolID:          m.TeachingSessionSchoolID.String(),
		SlotID:            m.TeachingSessionSlotID.String(),
		EnrollmentID:      m.TeachingSessionEnrollmentID.String(),

		Status:       m.TeachingSessionStatus,
		VerifiedAt:   m.TeachingSessionVerifiedAt,
		AdminRemarks: m.TeachingSessionAdminRemarks,
		RemarksLog:   m.TeachingSessionRemarksLog,

		ActualDurationMinutes:   m.TeachingSessionActualDurationMinutes,
		ExpectedDurationMinutes: m.TeachingSessionExpectedDurationMinutes,

		CreatedAt: m.TeachingSessionCreatedAt,
		UpdatedAt: m.TeachingSessionUpdatedAt,
	}
	if m.TeachingSessionVerifiedBy != nil {
		vb := m.TeachingSessionVerifiedBy.String()
		resp.VerifiedBy = &vb
	}
	if m.HasStartEvidence() {
		resp.StartEvidence = &EvidenceResponse{
			PhotoPath:          *m.TeachingSessionStartPhotoPath,
			GpsLat:             m.TeachingSessionStartGpsLatitude,
			GpsLng:             m.TeachingSessionStartGpsLongitude,
			TakenAt:            m.TeachingSessionStartPhotoTakenAt,
			UploadedAt:         m.TeachingSessionStartPhotoUploadedAt,
			DistanceFromSchool: m.TeachingSessionStartDistanceFromSchool,
		}
	}
	if m.HasEndEvidence() {
		resp.EndEvidence = &EvidenceResponse{
			PhotoPath:          *m.TeachingSessionEndPhotoPath,
			GpsLat:             m.TeachingSessionEndGpsLatitude,
			GpsLng:             m.TeachingSessionEndGpsLongitude,
			TakenAt:            m.TeachingSessionEndPhotoTakenAt,
			UploadedAt:         m.TeachingSessionEndPhotoUploadedAt,
			DistanceFromSchool: m.TeachingSessionEndDistanceFromSchool,
		}
	}
	return resp
}
