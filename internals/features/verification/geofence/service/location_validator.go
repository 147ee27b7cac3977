// file: internals/features/verification/geofence/service/location_validator.go
package service

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
)

/* =======================================================
   Location classification
   ======================================================= */

type LocationStatus string

const (
	LocationUnknown    LocationStatus = "unknown"
	LocationMatched    LocationStatus = "matched"
	LocationMismatched LocationStatus = "mismatched"
)

// Classification is the result of checking one photo's GPS point against a
// school geofence. Distance is nil when the status is unknown.
type Classification struct {
	Status   LocationStatus `json:"status"`
	Distance *float64       `json:"distance,omitempty"`
}

// Classify places a photo GPS point against the school's geofence.
// Either coordinate pair missing → unknown (degraded config is a warning
// upstream, never a hard failure).
func Classify(photoLat, photoLng, schoolLat, schoolLng *float64, radius float64) Classification {
	if photoLat == nil || photoLng == nil || schoolLat == nil || schoolLng == nil {
		return Classification{Status: LocationUnknown}
	}
	d := DistanceMeters(*photoLat, *photoLng, *schoolLat, *schoolLng)
	st := LocationMatched
	if d > radius {
		st = LocationMismatched
	}
	return Classification{Status: st, Distance: &d}
}

/* =======================================================
   LocationValidator — school location configuration
   ======================================================= */

type LocationValidator struct {
	DB *gorm.DB
}

func NewLocationValidator(db *gorm.DB) *LocationValidator {
	return &LocationValidator{DB: db}
}

// SetSchoolLocation configures the geofence reference point for one school.
func (v *LocationValidator) SetSchoolLocation(schoolID uuid.UUID, lat, lng float64, address *string, radius float64) (*schoolModel.SchoolModel, error) {
	if lat < -90 || lat > 90 {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("latitude %.6f out of range [-90,90]", lat))
	}
	if lng < -180 || lng > 180 {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("longitude %.6f out of range [-180,180]", lng))
	}
	if radius <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "radius must be greater than zero")
	}

	var school schoolModel.SchoolModel
	if err := v.DB.First(&school, "school_id = ?", schoolID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return nil, err
	}

	updates := map[string]any{
		"school_gps_latitude":   lat,
		"school_gps_longitude":  lng,
		"school_allowed_radius": radius,
	}
	if address != nil {
		updates["school_address"] = *address
	}
	if err := v.DB.Model(&school).Updates(updates).Error; err != nil {
		return nil, err
	}

	school.SchoolGpsLatitude = &lat
	school.SchoolGpsLongitude = &lng
	school.SchoolAllowedRadius = radius
	if address != nil {
		school.SchoolAddress = address
	}
	return &school, nil
}

// SchoolWithLocationStatus annotates a school with whether a geofence
// reference point is configured. Consumed by settings/reporting pages only.
type SchoolWithLocationStatus struct {
	schoolModel.SchoolModel
	HasLocation bool `json:"has_location"`
}

// SchoolsWithLocationStatus lists all schools with their location-config flag.
func (v *LocationValidator) SchoolsWithLocationStatus() ([]SchoolWithLocationStatus, error) {
	var schools []schoolModel.SchoolModel
	if err := v.DB.Order("school_name ASC").Find(&schools).Error; err != nil {
		return nil, err
	}
	out := make([]SchoolWithLocationStatus, 0, len(schools))
	for i := range schools {
		out = append(out, SchoolWithLocationStatus{
			SchoolModel: schools[i],
			HasLocation: schools[i].HasLocation(),
		})
	}
	return out, nil
}
