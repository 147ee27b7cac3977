// file: internals/features/verification/geofence/controller/location_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	"schoolku_backend/internals/features/verification/geofence/dto"
	"schoolku_backend/internals/features/verification/geofence/service"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

var validate = validator.New()

type LocationController struct {
	DB        *gorm.DB
	Validator *service.LocationValidator
	Settings  *settingsService.Service
}

func NewLocationController(db *gorm.DB) *LocationController {
	return &LocationController{
		DB:        db,
		Validator: service.NewLocationValidator(db),
		Settings:  settingsService.New(db),
	}
}

// PUT /schools/:id/location — set or move a school's geofence reference
// point. Radius falls back to the configured default when omitted.
func (ctl *LocationController) SetSchoolLocation(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid school ID")
	}

	var req dto.SetLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	radius := req.Radius
	if radius == 0 {
		snap, err := ctl.Settings.Load()
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load settings")
		}
		radius = snap.ValidationRadiusMeters
	}

	school, err := ctl.Validator.SetSchoolLocation(schoolID, req.GpsLat, req.GpsLng, req.Address, radius)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "School location updated", school)
}

// GET /schools/locations — all schools with whether their geofence is
// configured, for the admin location dashboard.
func (ctl *LocationController) ListSchoolLocations(c *fiber.Ctx) error {
	rows, err := ctl.Validator.SchoolsWithLocationStatus()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list school locations")
	}
	return helper.Success(c, "OK", rows)
}

// POST /schools/:id/distance-check — preview a coordinate against the
// school's geofence without touching any session.
func (ctl *LocationController) DistanceCheck(c *fiber.Ctx) error {
	schoolID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid school ID")
	}

	var req dto.DistanceCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var school schoolModel.SchoolModel
	if err := ctl.DB.First(&school, "school_id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "School not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load school")
	}

	cls := service.Classify(&req.GpsLat, &req.GpsLng, school.SchoolGpsLatitude, school.SchoolGpsLongitude, school.SchoolAllowedRadius)
	return helper.Success(c, "OK", fiber.Map{
		"school_id":      school.SchoolID,
		"allowed_radius": school.SchoolAllowedRadius,
		"classification": cls,
	})
}
