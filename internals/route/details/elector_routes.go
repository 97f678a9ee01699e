package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/electorate/controller"
	"intikhab_backend/internals/middlewares"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func ElectorRoutes(app *fiber.App, db *gorm.DB) {
	electorController := controller.NewElectorController(db)

	electors := app.Group("/api/electors", authMiddleware.AuthMiddleware(db))

	electors.Get("/", electorController.List)
	electors.Post("/", authMiddleware.RequireSupervisor("elector management"), electorController.Create)
	electors.Get("/search", electorController.Search)
	electors.Get("/statistics", electorController.Statistics)
	electors.Get("/filter_options", electorController.FilterOptions)
	electors.Get("/pending", authMiddleware.RequireAdmin("elector approval"), electorController.Pending)
	electors.Post("/import_csv", authMiddleware.RequireAdmin("elector import"), middlewares.BulkRateLimiter(), electorController.ImportCSV)
	electors.Get("/export", authMiddleware.RequireSupervisor("elector export"), electorController.ExportCSV)
	electors.Post("/bulk_approve", authMiddleware.RequireAdmin("elector approval"), electorController.BulkApprove)

	electors.Get("/:kocId", electorController.GetByKocID)
	electors.Patch("/:kocId", authMiddleware.RequireAdmin("elector management"), electorController.Update)
	electors.Delete("/:kocId", authMiddleware.RequireAdmin("elector management"), electorController.Delete)
	electors.Post("/:kocId/approve", authMiddleware.RequireAdmin("elector approval"), electorController.Approve)
	electors.Get("/:kocId/relationships", electorController.Relationships)
	electors.Get("/:kocId/relatives", electorController.Relatives)
	electors.Get("/:kocId/work_colleagues", electorController.WorkColleagues)
}
