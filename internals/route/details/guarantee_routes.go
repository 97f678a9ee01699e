package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/guarantees/controller"
	"intikhab_backend/internals/middlewares"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func GuaranteeRoutes(app *fiber.App, db *gorm.DB) {
	guaranteeController := controller.NewGuaranteeController(db)
	groupController := controller.NewGroupController(db)

	guarantees := app.Group("/api/guarantees", authMiddleware.AuthMiddleware(db))

	groups := guarantees.Group("/groups")
	groups.Get("/", groupController.List)
	groups.Post("/", groupController.Create)
	groups.Post("/reorder", groupController.Reorder)
	groups.Patch("/:id", groupController.Update)
	groups.Delete("/:id", groupController.Delete)

	guarantees.Get("/", guaranteeController.List)
	guarantees.Post("/", guaranteeController.Create)
	guarantees.Get("/statistics", guaranteeController.Statistics)
	guarantees.Get("/team", authMiddleware.RequireSupervisor("team statistics"), guaranteeController.TeamStatistics)
	guarantees.Get("/search-elector", guaranteeController.SearchElector)
	guarantees.Get("/relatives", guaranteeController.Relatives)
	guarantees.Get("/export/csv", guaranteeController.ExportCSV)
	guarantees.Post("/bulk-update", middlewares.BulkRateLimiter(), guaranteeController.BulkUpdate)
	guarantees.Post("/bulk-confirm", middlewares.BulkRateLimiter(), guaranteeController.BulkConfirm)

	byElector := guarantees.Group("/by-elector")
	byElector.Get("/:kocId", guaranteeController.ByElectorGet)
	byElector.Patch("/:kocId", guaranteeController.ByElectorPatch)
	byElector.Delete("/:kocId", guaranteeController.ByElectorDelete)

	guarantees.Get("/:id", guaranteeController.GetByID)
	guarantees.Patch("/:id", guaranteeController.Update)
	guarantees.Delete("/:id", guaranteeController.Delete)
	guarantees.Post("/:id/quick-update", guaranteeController.QuickUpdate)
	guarantees.Post("/:id/confirm", guaranteeController.Confirm)
	guarantees.Get("/:id/notes", guaranteeController.Notes)
	guarantees.Post("/:id/add-note", guaranteeController.AddNote)
	guarantees.Get("/:id/history", guaranteeController.History)
}
