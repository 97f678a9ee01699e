package route

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	routeDetails "intikhab_backend/internals/route/details"
)

var startTime = time.Now()

// SetupRoutes registers every API group on the app.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	log.Println("[INFO] Setting up UserRoutes...")
	routeDetails.UserRoutes(app, db)

	log.Println("[INFO] Setting up ElectionRoutes...")
	routeDetails.ElectionRoutes(app, db)

	log.Println("[INFO] Setting up ElectorRoutes...")
	routeDetails.ElectorRoutes(app, db)

	log.Println("[INFO] Setting up CandidateRoutes...")
	routeDetails.CandidateRoutes(app, db)

	log.Println("[INFO] Setting up GuaranteeRoutes...")
	routeDetails.GuaranteeRoutes(app, db)

	log.Println("[INFO] Setting up AttendanceRoutes...")
	routeDetails.AttendanceRoutes(app, db)

	log.Println("[INFO] Setting up VotingRoutes...")
	routeDetails.VotingRoutes(app, db)

	log.Println("[INFO] Setting up ReportRoutes...")
	routeDetails.ReportRoutes(app, db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	})
}
