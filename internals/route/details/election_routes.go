package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/elections/controller"
	reportsController "intikhab_backend/internals/features/reports/controller"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func ElectionRoutes(app *fiber.App, db *gorm.DB) {
	electionController := controller.NewElectionController(db)
	committeeController := controller.NewCommitteeController(db)
	reports := reportsController.NewReportsController(db)

	elections := app.Group("/api/elections", authMiddleware.AuthMiddleware(db))

	elections.Get("/", electionController.List)
	elections.Post("/", authMiddleware.RequireAdmin("election management"), electionController.Create)
	elections.Get("/current", electionController.Current)

	// Committees nest under elections; registered before the election
	// /:id routes so the path segment is not captured as an id.
	committees := elections.Group("/committees")

	committees.Get("/", committeeController.List)
	committees.Post("/", authMiddleware.RequireAdmin("committee management"), committeeController.Create)
	committees.Get("/:id", committeeController.GetByID)
	committees.Patch("/:id", authMiddleware.RequireAdmin("committee management"), committeeController.Update)
	committees.Delete("/:id", authMiddleware.RequireAdmin("committee management"), committeeController.Delete)
	committees.Post("/:id/assign-users", authMiddleware.RequireAdmin("committee membership"), committeeController.AssignUsers)
	committees.Post("/:id/remove-member", authMiddleware.RequireAdmin("committee membership"), committeeController.RemoveMember)
	committees.Post("/:id/auto-assign-electors", authMiddleware.RequireAdmin("elector assignment"), committeeController.AutoAssignElectors)

	elections.Get("/:id", electionController.GetByID)
	elections.Patch("/:id", authMiddleware.RequireAdmin("election management"), electionController.Update)
	elections.Delete("/:id", authMiddleware.RequireAdmin("election management"), electionController.Delete)
	elections.Get("/:id/dashboard", authMiddleware.RequireSupervisor("election dashboard"), reports.Overview)
}
