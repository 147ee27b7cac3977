// file: internals/features/verification/ratelimit/model/upload_counter_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =======================================================
   TeacherUploadCounterModel — map to teacher_upload_counters
   One row per teacher per day; bumped atomically on every
   accepted evidence submission.
   ======================================================= */

type TeacherUploadCounterModel struct {
	TeacherUploadCounterID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teacher_upload_counter_id" json:"teacher_upload_counter_id"`

	TeacherUploadCounterTeacherID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_teacher_upload_counter_day;column:teacher_upload_counter_teacher_id" json:"teacher_upload_counter_teacher_id"`
	TeacherUploadCounterDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_teacher_upload_counter_day;column:teacher_upload_counter_date" json:"teacher_upload_counter_date"`

	TeacherUploadCounterCount int `gorm:"not null;default:0;column:teacher_upload_counter_count" json:"teacher_upload_counter_count"`

	TeacherUploadCounterCreatedAt time.Time `gorm:"column:teacher_upload_counter_created_at;not null;autoCreateTime" json:"teacher_upload_counter_created_at"`
	TeacherUploadCounterUpdatedAt time.Time `gorm:"column:teacher_upload_counter_updated_at;not null;autoUpdateTime" json:"teacher_upload_counter_updated_at"`
}

func (TeacherUploadCounterModel) TableName() string { return "teacher_upload_counters" }
