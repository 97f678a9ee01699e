package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/attendance/controller"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func AttendanceRoutes(app *fiber.App, db *gorm.DB) {
	attendanceController := controller.NewAttendanceController(db)

	attendees := app.Group("/api/attendees", authMiddleware.AuthMiddleware(db))

	attendees.Get("/", attendanceController.List)
	attendees.Post("/mark", attendanceController.Mark)
	attendees.Post("/add-pending-elector", attendanceController.AddPendingElector)
	attendees.Get("/search-elector", attendanceController.SearchElector)
	attendees.Get("/committee/:code", attendanceController.ByCommittee)
	attendees.Get("/statistics/:code", attendanceController.Statistics)
	attendees.Post("/statistics/:code/refresh", authMiddleware.RequireAdmin("attendance statistics"), attendanceController.RefreshStatistics)
	attendees.Get("/export/csv", authMiddleware.RequireSupervisor("attendance export"), attendanceController.ExportCSV)
	attendees.Get("/export/pdf", authMiddleware.RequireSupervisor("attendance export"), attendanceController.ExportPDF)
	attendees.Delete("/:id", authMiddleware.RequireAdmin("attendance management"), attendanceController.Delete)
}
