package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/reports/controller"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func ReportRoutes(app *fiber.App, db *gorm.DB) {
	reportsController := controller.NewReportsController(db)

	reports := app.Group("/api/reports", authMiddleware.AuthMiddleware(db))

	dashboard := reports.Group("/dashboard")
	dashboard.Get("/personal", reportsController.PersonalDashboard)
	dashboard.Get("/supervisor", authMiddleware.RequireSupervisor("supervisor dashboard"), reportsController.SupervisorDashboard)
	dashboard.Get("/admin", authMiddleware.RequireAdmin("admin dashboard"), reportsController.AdminDashboard)
	dashboard.Get("/attendance", reportsController.AttendanceDashboard)

	reports.Get("/overview", authMiddleware.RequireSupervisor("overview report"), reportsController.Overview)
	reports.Get("/coverage", authMiddleware.RequireAdmin("coverage report"), reportsController.Coverage)
	reports.Get("/accuracy", authMiddleware.RequireAdmin("accuracy report"), reportsController.Accuracy)
	reports.Get("/committee-performance", authMiddleware.RequireAdmin("committee performance report"), reportsController.CommitteePerformance)

	analytics := reports.Group("/analytics")
	analytics.Get("/trends", reportsController.Trends)
	analytics.Post("/create-snapshot", authMiddleware.RequireSupervisor("report snapshots"), reportsController.CreateSnapshot)

	charts := reports.Group("/charts")
	charts.Get("/guarantee-distribution", reportsController.GuaranteeDistribution)
	charts.Get("/elector-distribution", reportsController.ElectorDistribution)
	charts.Get("/committee-comparison", reportsController.CommitteeComparison)
	charts.Get("/hourly-attendance", reportsController.HourlyAttendance)
	charts.Get("/demographics", reportsController.Demographics)
}
