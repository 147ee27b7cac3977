// file: internals/features/verification/sessions/controller/teacher_session_controller.go
package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/audit"

	ratelimitService "schoolku_backend/internals/features/verification/ratelimit/service"
	"schoolku_backend/internals/features/verification/sessions/dto"
	"schoolku_backend/internals/features/verification/sessions/model"
	"schoolku_backend/internals/features/verification/sessions/service"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

var validate = validator.New()

/* =======================================================
   TeacherSessionController — photo submission & own-session
   reads. All handlers assume AuthJWT ran first.
   ======================================================= */

type TeacherSessionController struct {
	DB       *gorm.DB
	Sessions *service.SessionService
	Limiter  *ratelimitService.RateLimiter
	Settings *settingsService.Service
}

func NewTeacherSessionController(db *gorm.DB) *TeacherSessionController {
	return &TeacherSessionController{
		DB:       db,
		Sessions: service.NewSessionService(service.NewSessionStore(db), audit.NewLogger(db)),
		Limiter:  ratelimitService.NewRateLimiter(ratelimitService.NewCounterStore(db)),
		Settings: settingsService.New(db),
	}
}

// POST /sessions/:id/start-photo
func (ctl *TeacherSessionController) SubmitStartPhoto(c *fiber.Ctx) error {
	return ctl.submitPhoto(c, true)
}

// POST /sessions/:id/end-photo
func (ctl *TeacherSessionController) SubmitEndPhoto(c *fiber.Ctx) error {
	return ctl.submitPhoto(c, false)
}

func (ctl *TeacherSessionController) submitPhoto(c *fiber.Ctx, isStart bool) error {
	teacherID, err := helperAuth.GetTeacherUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SubmitPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	sc, err := loadSessionContext(ctl.DB, ctl.Settings, sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if sc.Session.TeachingSessionTeacherID != teacherID {
		return helper.Error(c, fiber.StatusForbidden, "Session belongs to another teacher")
	}

	now := time.Now()

	// the daily counter increments atomically with the limit check, so two
	// racing submissions can never both pass on the last remaining credit
	allowed, count, err := ctl.Limiter.CheckAndIncrement(teacherID, now, sc.Settings.DailyUploadLimit)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to check upload quota")
	}
	if !allowed {
		return helper.ErrorWithDetails(c, fiber.StatusTooManyRequests,
			fmt.Sprintf("Daily upload limit reached (%d/%d)", count, sc.Settings.DailyUploadLimit),
			fiber.Map{"count": count, "limit": sc.Settings.DailyUploadLimit})
	}

	ev := service.Evidence{
		PhotoPath:  req.PhotoPath,
		GpsLat:     req.GpsLat,
		GpsLng:     req.GpsLng,
		TakenAt:    *req.TakenAt,
		UploadedAt: now,
	}

	var res *service.SubmissionResult
	if isStart {
		res, err = ctl.Sessions.SubmitStartPhoto(sc.Session, sc.Slot, sc.School, sc.Settings, ev, now)
	} else {
		res, err = ctl.Sessions.SubmitEndPhoto(sc.Session, sc.Slot, sc.School, sc.Settings, ev, now)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			return helper.Error(c, fiber.StatusConflict,
				fmt.Sprintf("Photo cannot be submitted while the session is %s", sc.Session.TeachingSessionStatus))
		case errors.Is(err, service.ErrStaleState):
			return helper.Error(c, fiber.StatusConflict, "Session was modified by another request, please retry")
		default:
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to store submission")
		}
	}

	return helper.Success(c, "Photo submitted", fiber.Map{
		"session": dto.FromModel(sc.Session),
		"result":  res,
	})
}

// GET /sessions — the caller's own sessions, optionally ?status= filtered.
func (ctl *TeacherSessionController) ListMySessions(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	q := ctl.DB.Where("teaching_session_teacher_id = ?", teacherID)
	if status := c.Query("status"); status != "" {
		if !model.SessionStatus(status).Valid() {
			return helper.Error(c, fiber.StatusBadRequest, "Unknown session status")
		}
		q = q.Where("teaching_session_status = ?", status)
	}

	var rows []model.TeachingSessionModel
	if err := q.Order("teaching_session_created_at DESC").Limit(100).Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list sessions")
	}

	out := make([]dto.SessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

// GET /sessions/:id
func (ctl *TeacherSessionController) GetMySession(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var sess model.TeachingSessionModel
	if err := ctl.DB.First(&sess, "teaching_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load session")
	}
	if sess.TeachingSessionTeacherID != teacherID {
		return helper.Error(c, fiber.StatusForbidden, "Session belongs to another teacher")
	}
	return helper.Success(c, "OK", dto.FromModel(&sess))
}

// GET /sessions/quota — remaining daily submissions for the caller.
func (ctl *TeacherSessionController) GetMyQuota(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetTeacherUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	snap, err := ctl.Settings.Load()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	count, err := ctl.Limiter.Peek(teacherID, time.Now())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to read upload quota")
	}
	remaining := snap.DailyUploadLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return helper.Success(c, "OK", fiber.Map{
		"count":     count,
		"limit":     snap.DailyUploadLimit,
		"remaining": remaining,
	})
}
