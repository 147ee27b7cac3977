// file: internals/middlewares/auth/role_middleware.go
package auth

import (
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	helperAuth "schoolku_backend/internals/helpers/auth"
)

// IsAdmin guards admin-only feature groups.
func IsAdmin(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.HasRole(c, constants.AdminAndAbove...) {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
		}
		return c.Next()
	}
}

// IsTeacher guards teacher-facing feature groups (admins and owners pass too).
func IsTeacher(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helperAuth.HasRole(c, constants.TeacherAndAbove...) {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher(feature))
		}
		return c.Next()
	}
}
