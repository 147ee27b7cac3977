package route

import (
	alertCtrl "schoolku_backend/internals/features/verification/alerts/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func VerificationAlertsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := alertCtrl.NewAlertController(db)

	aGroup := r.Group("/alerts")
	aGroup.Get("/summary", ctl.GetSummary)
	aGroup.Get("/sessions/:id", ctl.GetSessionAlerts)
}
