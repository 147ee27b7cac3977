// file: internals/features/verification/sessions/controller/session_context.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	schoolModel "schoolku_backend/internals/features/school/schools/model"
	slotModel "schoolku_backend/internals/features/school/slots/model"
	"schoolku_backend/internals/features/verification/sessions/model"
	settingsService "schoolku_backend/internals/features/verification/settings/service"
)

// sessionContext bundles everything a verification decision reads: the
// session row plus its slot, school and the settings snapshot taken at
// request time.
type sessionContext struct {
	Session  *model.TeachingSessionModel
	Slot     *slotModel.TeachingSlotModel
	School   *schoolModel.SchoolModel
	Settings settingsService.Snapshot
}

func loadSessionContext(db *gorm.DB, settings *settingsService.Service, sessionID uuid.UUID) (*sessionContext, error) {
	var sess model.TeachingSessionModel
	if err := db.First(&sess, "teaching_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return nil, err
	}

	var slot slotModel.TeachingSlotModel
	if err := db.First(&slot, "teaching_slot_id = ?", sess.TeachingSessionSlotID).Error; err != nil {
		return nil, err
	}

	var school schoolModel.SchoolModel
	if err := db.First(&school, "school_id = ?", sess.TeachingSessionSchoolID).Error; err != nil {
		return nil, err
	}

	snap, err := settings.Load()
	if err != nil {
		return nil, err
	}

	return &sessionContext{
		Session:  &sess,
		Slot:     &slot,
		School:   &school,
		Settings: snap,
	}, nil
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID")
	}
	return id, nil
}
