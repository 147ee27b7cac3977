package route

import (
	geoCtrl "schoolku_backend/internals/features/verification/geofence/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GeofenceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := geoCtrl.NewLocationController(db)

	sGroup := r.Group("/schools")
	sGroup.Get("/locations", ctl.ListSchoolLocations)
	sGroup.Put("/:id/location", ctl.SetSchoolLocation)
	sGroup.Post("/:id/distance-check", ctl.DistanceCheck)
}
