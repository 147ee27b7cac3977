// file: internals/features/school/schools/model/school_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =======================================================
   SchoolModel — map to schools
   Owned by the school-management collaborator; the
   verification engine reads the geofence reference point
   and writes only the location columns (SetSchoolLocation).
   ======================================================= */

type SchoolModel struct {
	SchoolID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:school_id" json:"school_id"`
	SchoolName string    `gorm:"type:varchar(100);not null;column:school_name" json:"school_name"`

	SchoolAddress *string `gorm:"type:text;column:school_address" json:"school_address,omitempty"`

	// Geofence reference point; nil until an admin configures it.
	SchoolGpsLatitude  *float64 `gorm:"type:decimal(9,6);column:school_gps_latitude"  json:"school_gps_latitude,omitempty"`
	SchoolGpsLongitude *float64 `gorm:"type:decimal(9,6);column:school_gps_longitude" json:"school_gps_longitude,omitempty"`

	// Geofence radius in meters.
	SchoolAllowedRadius float64 `gorm:"type:decimal(8,2);not null;default:200;column:school_allowed_radius" json:"school_allowed_radius"`

	SchoolCreatedAt time.Time      `gorm:"column:school_created_at;not null;autoCreateTime" json:"school_created_at"`
	SchoolUpdatedAt time.Time      `gorm:"column:school_updated_at;not null;autoUpdateTime" json:"school_updated_at"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"column:school_deleted_at;index" json:"school_deleted_at,omitempty"`
}

func (SchoolModel) TableName() string { return "schools" }

// HasLocation reports whether a geofence reference point is configured.
func (m *SchoolModel) HasLocation() bool {
	return m.SchoolGpsLatitude != nil && m.SchoolGpsLongitude != nil
}
