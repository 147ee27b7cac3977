package route

import (
	rlCtrl "schoolku_backend/internals/features/verification/ratelimit/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UploadLimitsAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := rlCtrl.NewRateLimitController(db)

	lGroup := r.Group("/upload-limits")
	lGroup.Get("/at-limit", ctl.ListTeachersAtLimit)
	lGroup.Get("/:teacher_id", ctl.GetTeacherCount)
	lGroup.Delete("/:teacher_id", ctl.ResetTeacherCount)
}
