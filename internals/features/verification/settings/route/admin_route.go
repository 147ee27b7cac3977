package route

import (
	settingsCtrl "schoolku_backend/internals/features/verification/settings/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func VerificationSettingsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := settingsCtrl.NewSettingsController(db)

	sGroup := r.Group("/verification-settings")
	sGroup.Get("/", ctl.ListSettings)
	sGroup.Patch("/", ctl.UpdateSettings)
}
