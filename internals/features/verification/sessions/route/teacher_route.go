package route

import (
	sessCtrl "schoolku_backend/internals/features/verification/sessions/controller"
	"schoolku_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func VerificationSessionsTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := sessCtrl.NewTeacherSessionController(db)

	// =====================
	// Teaching Sessions (teacher side)
	// =====================
	sGroup := r.Group("/teaching-sessions")
	sGroup.Get("/", ctl.ListMySessions)
	sGroup.Get("/quota", ctl.GetMyQuota)
	sGroup.Get("/:id", ctl.GetMySession)

	// photo submissions get a tighter per-IP limiter on top of the daily quota
	sGroup.Post("/:id/start-photo", middlewares.SubmissionRateLimiter(), ctl.SubmitStartPhoto)
	sGroup.Post("/:id/end-photo", middlewares.SubmissionRateLimiter(), ctl.SubmitEndPhoto)
}
