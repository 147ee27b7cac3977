// file: internals/features/verification/sessions/controller/admin_session_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/audit"

	"schoolku_backend/internals/features/verification/sessions/dto"
	"schoolku_backend/internals/features/verification/sessions/model"
	"schoolku_backend/internals/features/verification/sessions/service"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

/* =======================================================
   AdminSessionController — the review queue and verdicts.
   School scoped: admins only see their own school's sessions.
   ======================================================= */

type AdminSessionController struct {
	DB       *gorm.DB
	Sessions *service.SessionService
	Settings *settingsService.Service
}

func NewAdminSessionController(db *gorm.DB) *AdminSessionController {
	return &AdminSessionController{
		DB:       db,
		Sessions: service.NewSessionService(service.NewSessionStore(db), audit.NewLogger(db)),
		Settings: settingsService.New(db),
	}
}

// GET /sessions?status=&teacher_id= — review queue, newest first.
func (ctl *AdminSessionController) ListSessions(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}

	q := ctl.DB.Where("teaching_session_school_id = ?", schoolID)
	if status := c.Query("status"); status != "" {
		if !model.SessionStatus(status).Valid() {
			return helper.Error(c, fiber.StatusBadRequest, "Unknown session status")
		}
		q = q.Where("teaching_session_status = ?", status)
	}
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		q = q.Where("teaching_session_teacher_id = ?", teacherID)
	}

	var rows []model.TeachingSessionModel
	if err := q.Order("teaching_session_created_at DESC").Limit(200).Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list sessions")
	}

	out := make([]dto.SessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	return helper.Success(c, "OK", out)
}

// GET /sessions/:id — full detail: the session, its fresh validation
// report, the active auto verdicts and which actions are legal right now.
func (ctl *AdminSessionController) GetSession(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sc, err := loadSessionContext(ctl.DB, ctl.Settings, sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if sc.Session.TeachingSessionSchoolID != schoolID {
		return helper.Error(c, fiber.StatusForbidden, "Session belongs to another school")
	}

	report := service.ValidateSession(sc.Session, sc.Slot, sc.School, sc.Settings, time.Now())
	verdict := service.CheckAutoReject(sc.Session, sc.Slot, sc.School, sc.Settings)
	autoApprove := service.CheckAutoApprove(sc.Session, sc.Slot, sc.School, sc.Settings)

	return helper.Success(c, "OK", fiber.Map{
		"session":              dto.FromModel(sc.Session),
		"report":               report,
		"auto_reject":          verdict,
		"auto_approve_eligible": autoApprove,
		"legal_actions":        service.LegalActions(sc.Session.TeachingSessionStatus),
	})
}

// POST /sessions/:id/approve-start
func (ctl *AdminSessionController) ApproveStart(c *fiber.Ctx) error {
	return ctl.decide(c, func(sc *sessionContext, req dto.DecisionRequest, adminID uuid.UUID, now time.Time) error {
		return ctl.Sessions.ApproveStart(sc.Session, sc.Slot, sc.School, sc.Settings, adminID, req.Remarks, req.Force, now)
	}, "Start photo approved")
}

// POST /sessions/:id/approve
func (ctl *AdminSessionController) Approve(c *fiber.Ctx) error {
	return ctl.decide(c, func(sc *sessionContext, req dto.DecisionRequest, adminID uuid.UUID, now time.Time) error {
		return ctl.Sessions.Approve(sc.Session, sc.Slot, sc.School, sc.Settings, adminID, req.Remarks, req.Force, now)
	}, "Session approved")
}

// POST /sessions/:id/reject
func (ctl *AdminSessionController) Reject(c *fiber.Ctx) error {
	return ctl.decide(c, func(sc *sessionContext, req dto.DecisionRequest, adminID uuid.UUID, now time.Time) error {
		remarks := ""
		if req.Remarks != nil {
			remarks = *req.Remarks
		}
		return ctl.Sessions.Reject(sc.Session, adminID, remarks, now)
	}, "Session rejected")
}

// POST /sessions/:id/resubmit
func (ctl *AdminSessionController) RequestResubmit(c *fiber.Ctx) error {
	return ctl.decide(c, func(sc *sessionContext, req dto.DecisionRequest, adminID uuid.UUID, now time.Time) error {
		return ctl.Sessions.RequestResubmit(sc.Session, adminID, req.Remarks, now)
	}, "Resubmission requested")
}

/* =======================================================
   internals
   ======================================================= */

type decisionFunc func(sc *sessionContext, req dto.DecisionRequest, adminID uuid.UUID, now time.Time) error

func (ctl *AdminSessionController) decide(c *fiber.Ctx, fn decisionFunc, successMsg string) error {
	schoolID, err := helperAuth.GetSchoolUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	adminID, err := helperAuth.GetUserUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := parseSessionID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	sc, err := loadSessionContext(ctl.DB, ctl.Settings, sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if sc.Session.TeachingSessionSchoolID != schoolID {
		return helper.Error(c, fiber.StatusForbidden, "Session belongs to another school")
	}

	if err := fn(sc, req, adminID, time.Now()); err != nil {
		var blocked *service.ErrAutoRejectBlocked
		switch {
		case errors.As(err, &blocked):
			return helper.ErrorWithDetails(c, fiber.StatusUnprocessableEntity,
				"Approval blocked by an automatic reject verdict", fiber.Map{"reason": blocked.Reason})
		case errors.Is(err, service.ErrRemarksRequired):
			return helper.Error(c, fiber.StatusBadRequest, "Remarks are required when rejecting a session")
		case errors.Is(err, service.ErrInvalidTransition):
			return helper.Error(c, fiber.StatusConflict,
				"Action not allowed while the session is "+string(sc.Session.TeachingSessionStatus))
		case errors.Is(err, service.ErrStaleState):
			return helper.Error(c, fiber.StatusConflict, "Session was modified by another request, please retry")
		default:
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to apply decision")
		}
	}

	return helper.Success(c, successMsg, dto.FromModel(sc.Session))
}
