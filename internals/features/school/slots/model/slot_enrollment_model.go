// file: internals/features/school/slots/model/slot_enrollment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentBooked    EnrollmentStatus = "booked"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

/* =======================================================
   SlotEnrollmentModel — map to slot_enrollments
   A teacher's booking against a slot. Created by the
   enrollment collaborator; the verification engine only
   flips it to completed on full approval.
   ======================================================= */

type SlotEnrollmentModel struct {
	SlotEnrollmentID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:slot_enrollment_id" json:"slot_enrollment_id"`
	SlotEnrollmentSlotID    uuid.UUID `gorm:"type:uuid;not null;column:slot_enrollment_slot_id" json:"slot_enrollment_slot_id"`
	SlotEnrollmentTeacherID uuid.UUID `gorm:"type:uuid;not null;column:slot_enrollment_teacher_id" json:"slot_enrollment_teacher_id"`

	SlotEnrollmentStatus EnrollmentStatus `gorm:"type:text;not null;default:'booked';column:slot_enrollment_status" json:"slot_enrollment_status"`

	SlotEnrollmentCreatedAt time.Time      `gorm:"column:slot_enrollment_created_at;not null;autoCreateTime" json:"slot_enrollment_created_at"`
	SlotEnrollmentUpdatedAt time.Time      `gorm:"column:slot_enrollment_updated_at;not null;autoUpdateTime" json:"slot_enrollment_updated_at"`
	SlotEnrollmentDeletedAt gorm.DeletedAt `gorm:"column:slot_enrollment_deleted_at;index" json:"slot_enrollment_deleted_at,omitempty"`
}

func (SlotEnrollmentModel) TableName() string { return "slot_enrollments" }
