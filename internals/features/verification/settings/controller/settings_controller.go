// file: internals/features/verification/settings/controller/settings_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"schoolku_backend/internals/features/verification/settings/dto"
	"schoolku_backend/internals/features/verification/settings/service"
)

var validate = validator.New()

type SettingsController struct {
	Settings *service.Service
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{Settings: service.New(db)}
}

// GET /verification-settings — every known key with its effective value.
func (ctl *SettingsController) ListSettings(c *fiber.Ctx) error {
	rows, err := ctl.Settings.ListEffective()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	return helper.Success(c, "OK", rows)
}

// PATCH /verification-settings — batch upsert; unknown keys reject the
// whole batch. Running submissions already validated keep their verdicts:
// a snapshot is taken per request, never re-read mid-decision.
func (ctl *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	adminID, err := helperAuth.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctl.Settings.UpdateBatch(req.Values, &adminID); err != nil {
		if errors.Is(err, service.ErrUnknownKey) {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
				"Batch contains an unknown setting key", fiber.Map{"known_keys": service.KnownKeys()})
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update settings")
	}

	rows, err := ctl.Settings.ListEffective()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Settings updated but reload failed")
	}
	return helper.Success(c, "Settings updated", rows)
}
