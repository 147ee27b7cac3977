package route

import (
	sessCtrl "schoolku_backend/internals/features/verification/sessions/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func VerificationSessionsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sessCtrl.NewAdminSessionController(db)

	// =====================
	// Teaching Sessions (review queue & verdicts)
	// =====================
	sGroup := r.Group("/teaching-sessions")
	sGroup.Get("/", ctl.ListSessions)
	sGroup.Get("/:id", ctl.GetSession)
	sGroup.Post("/:id/approve-start", ctl.ApproveStart)
	sGroup.Post("/:id/approve", ctl.Approve)
	sGroup.Post("/:id/reject", ctl.Reject)
	sGroup.Post("/:id/resubmit", ctl.RequestResubmit)
}
