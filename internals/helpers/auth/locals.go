// file: internals/helpers/auth/locals.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys hydrated by the JWT middleware.
const (
	LocUserID    = "user_id"
	LocTeacherID = "teacher_id"
	LocSchoolID  = "school_id"
	LocRoles     = "roles"
)

func strLocal(c *fiber.Ctx, key string) string {
	if v := c.Locals(key); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func uuidLocal(c *fiber.Ctx, key, what string) (uuid.UUID, error) {
	s := strLocal(c, key)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing "+what)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid "+what)
	}
	return id, nil
}

// GetUserUUID returns the authenticated user's id from token claims.
func GetUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocUserID, "user id")
}

// GetTeacherUUID returns the teacher id claim; only present on teacher tokens.
func GetTeacherUUID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocTeacherID, "teacher id")
}

// GetSchoolUUID returns the active school scope of the token.
func GetSchoolUUID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocSchoolID, "school id")
}

// Roles reads the roles claim as a normalized string slice.
func Roles(c *fiber.Ctx) []string {
	v := c.Locals(LocRoles)
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.ToLower(strings.TrimSpace(s)))
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{strings.ToLower(s)}
		}
	}
	return nil
}

// HasRole reports whether the token carries any of the wanted roles.
func HasRole(c *fiber.Ctx, wanted ...string) bool {
	have := Roles(c)
	for _, w := range wanted {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
