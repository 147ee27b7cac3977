// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	authMiddleware "schoolku_backend/internals/middlewares/auth"

	alertRoute "schoolku_backend/internals/features/verification/alerts/route"
	geofenceRoute "schoolku_backend/internals/features/verification/geofence/route"
	ratelimitRoute "schoolku_backend/internals/features/verification/ratelimit/route"
	sessionRoute "schoolku_backend/internals/features/verification/sessions/route"
	settingsRoute "schoolku_backend/internals/features/verification/settings/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	log.Println("[INFO] Setting up base routes...")
	BaseRoutes(app, db)

	jwtOpts := authMiddleware.AuthJWTOpts{
		Secret:              os.Getenv("JWT_SECRET"),
		AllowCookieFallback: true,
	}

	// ===================== TEACHER (/api/u) =====================
	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/u",
		authMiddleware.AuthJWT(jwtOpts),
		authMiddleware.IsTeacher("teaching session verification"),
	)
	sessionRoute.VerificationSessionsTeacherRoutes(teacher, db)

	// ===================== ADMIN (/api/a) =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(jwtOpts),
		authMiddleware.IsAdmin("teaching session verification"),
	)
	sessionRoute.VerificationSessionsAdminRoutes(admin, db)
	alertRoute.VerificationAlertsAdminRoutes(admin, db)
	geofenceRoute.GeofenceAdminRoutes(admin, db)
	ratelimitRoute.UploadLimitsAdminRoutes(admin, db)
	settingsRoute.VerificationSettingsAdminRoutes(admin, db)

	log.Println("✅ All routes registered")
}
