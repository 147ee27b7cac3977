// file: internals/features/verification/alerts/controller/alert_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	"schoolku_backend/internals/features/verification/alerts/service"
	"schoolku_backend/internals/features/verification/sessions/model"
)

type AlertController struct {
	DB     *gorm.DB
	Alerts *service.AlertService
}

func NewAlertController(db *gorm.DB) *AlertController {
	return &AlertController{DB: db, Alerts: service.NewAlertService(db)}
}

// GET /alerts/summary — red-flag counts over the school's review queue.
func (ctl *AlertController) GetSummary(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	summary, err := ctl.Alerts.SchoolSummary(schoolID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to build alert summary")
	}
	return helper.Success(c, "OK", summary)
}

// GET /alerts/sessions/:id — reviewer alerts for one submission.
func (ctl *AlertController) GetSessionAlerts(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolUUID(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	}
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid session ID")
	}

	var sess model.TeachingSessionModel
	if err := ctl.DB.First(&sess, "teaching_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Session not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load session")
	}
	if sess.TeachingSessionSchoolID != schoolID {
		return helper.Error(c, fiber.StatusForbidden, "Session belongs to another school")
	}

	var slot slotModel.TeachingSlotModel
	if err := ctl.DB.First(&slot, "teaching_slot_id = ?", sess.TeachingSessionSlotID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load slot")
	}
	var school schoolModel.SchoolModel
	if err := ctl.DB.First(&school, "school_id = ?", sess.TeachingSessionSchoolID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load school")
	}
	snap, err := ctl.Alerts.Settings.Load()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load settings")
	}

	alerts := service.BuildAlerts(&sess, &slot, &school, snap, time.Now())
	return helper.Success(c, "OK", fiber.Map{
		"session_id": sessionID,
		"alerts":     alerts,
	})
}
