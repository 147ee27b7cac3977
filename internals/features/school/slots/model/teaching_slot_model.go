// file: internals/features/school/slots/model/teaching_slot_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/helpers/dbtime"
)

/* =======================================================
   Enum slot status (matches teaching_slot_status_enum in DB)
   ======================================================= */

type SlotStatus string

const (
	SlotOpen      SlotStatus = "open"
	SlotFull      SlotStatus = "full"
	SlotOngoing   SlotStatus = "ongoing"
	SlotCompleted SlotStatus = "completed"
	SlotCancelled SlotStatus = "cancelled"
)

/* =======================================================
   TeachingSlotModel — map to teaching_slots
   Owned by the slot-management collaborator; read-only for
   the verification engine (supplies the expected window).
   ======================================================= */

type TeachingSlotModel struct {
	TeachingSlotID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teaching_slot_id" json:"teaching_slot_id"`
	TeachingSlotSchoolID uuid.UUID `gorm:"type:uuid;not null;column:teaching_slot_school_id" json:"teaching_slot_school_id"`

	TeachingSlotDate      time.Time  `gorm:"type:date;not null;column:teaching_slot_date" json:"teaching_slot_date"`
	TeachingSlotStartTime dbtime.Tod `gorm:"type:time;not null;column:teaching_slot_start_time" json:"teaching_slot_start_time"`
	TeachingSlotEndTime   dbtime.Tod `gorm:"type:time;not null;column:teaching_slot_end_time"   json:"teaching_slot_end_time"`

	TeachingSlotTeachersRequired int `gorm:"not null;default:1;column:teaching_slot_teachers_required" json:"teaching_slot_teachers_required"`
	TeachingSlotTeachersEnrolled int `gorm:"not null;default:0;column:teaching_slot_teachers_enrolled" json:"teaching_slot_teachers_enrolled"`

	TeachingSlotStatus SlotStatus `gorm:"type:text;not null;default:'open';column:teaching_slot_status" json:"teaching_slot_status"`

	TeachingSlotCreatedAt time.Time      `gorm:"column:teaching_slot_created_at;not null;autoCreateTime" json:"teaching_slot_created_at"`
	TeachingSlotUpdatedAt time.Time      `gorm:"column:teaching_slot_updated_at;not null;autoUpdateTime" json:"teaching_slot_updated_at"`
	TeachingSlotDeletedAt gorm.DeletedAt `gorm:"column:teaching_slot_deleted_at;index" json:"teaching_slot_deleted_at,omitempty"`
}

func (TeachingSlotModel) TableName() string { return "teaching_slots" }
