// file: internals/features/verification/settings/model/verification_setting_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =======================================================
   VerificationSettingModel — map to verification_settings
   Key/value rows; values are stored as strings
   ("true"/"false" booleans, numeric strings).
   ======================================================= */

type VerificationSettingModel struct {
	VerificationSettingID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:verification_setting_id" json:"verification_setting_id"`

	VerificationSettingKey   string `gorm:"type:varchar(64);uniqueIndex;not null;column:verification_setting_key" json:"verification_setting_key"`
	VerificationSettingValue string `gorm:"type:text;not null;column:verification_setting_value" json:"verification_setting_value"`

	VerificationSettingUpdatedBy *uuid.UUID `gorm:"type:uuid;column:verification_setting_updated_by" json:"verification_setting_updated_by,omitempty"`

	VerificationSettingCreatedAt time.Time `gorm:"column:verification_setting_created_at;not null;autoCreateTime" json:"verification_setting_created_at"`
	VerificationSettingUpdatedAt time.Time `gorm:"column:verification_setting_updated_at;not null;autoUpdateTime" json:"verification_setting_updated_at"`
}

func (VerificationSettingModel) TableName() string { return "verification_settings" }
