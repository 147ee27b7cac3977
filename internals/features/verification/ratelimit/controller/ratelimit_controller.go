// file: internals/features/verification/ratelimit/controller/ratelimit_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/audit"

	"schoolku_backend/internals/features/verification/ratelimit/service"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

type RateLimitController struct {
	Limiter  *service.RateLimiter
	Settings *settingsService.Service
	Audit    *audit.Logger
}

func NewRateLimitController(db *gorm.DB) *RateLimitController {
	return &RateLimitController{
		Limiter:  service.NewRateLimiter(service.NewCounterStore(db)),
		Settings: settingsService.New(db),
		Audit:    audit.NewLogger(db),
	}
}

// parseDay reads ?date=YYYY-MM-DD, defaulting to today.
func parseDay(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}
	return day, nil
}

// GET /upload-limits/at-limit?date= — teachers who exhausted the daily quota.
func (ctl *RateLimitController) ListTeachersAtLimit(c *fiber.Ctx) error {
	day, err := parseDay(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	snap, err := ctl.Settings.Load()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	rows, err := ctl.Limiter.TeachersAtLimit(day, snap.DailyUploadLimit)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list teachers at limit")
	}
	return helper.Success(c, "OK", fiber.Map{
		"date":  day.Format("2006-01-02"),
		"limit": snap.DailyUploadLimit,
		"rows":  rows,
	})
}

// GET /upload-limits/:teacher_id?date= — one teacher's counter.
func (ctl *RateLimitController) GetTeacherCount(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid teacher ID")
	}
	day, err := parseDay(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	snap, err := ctl.Settings.Load()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	count, err := ctl.Limiter.Peek(teacherID, day)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to read upload counter")
	}
	return helper.Success(c, "OK", fiber.Map{
		"teacher_id": teacherID,
		"date":       day.Format("2006-01-02"),
		"count":      count,
		"limit":      snap.DailyUploadLimit,
	})
}

// DELETE /upload-limits/:teacher_id?date= — reset a teacher's daily
// counter, e.g. after a resubmission request burned their quota.
func (ctl *RateLimitController) ResetTeacherCount(c *fiber.Ctx) error {
	adminID, err := helperAuth.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	teacherID, err := uuid.Parse(c.Params("teacher_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid teacher ID")
	}
	day, err := parseDay(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctl.Limiter.Reset(teacherID, day); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to reset upload counter")
	}
	ctl.Audit.LogAction(adminID, "reset_upload_counter", "teacher_upload_counters", teacherID, map[string]any{
		"date": day.Format("2006-01-02"),
	})
	return helper.Success(c, "Upload counter reset", fiber.Map{
		"teacher_id": teacherID,
		"date":       day.Format("2006-01-02"),
	})
}
