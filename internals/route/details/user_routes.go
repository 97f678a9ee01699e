package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/users/user/controller"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func UserRoutes(app *fiber.App, db *gorm.DB) {
	userController := controller.NewUserController(db)

	users := app.Group("/api/users", authMiddleware.AuthMiddleware(db))

	users.Get("/", userController.List)
	users.Post("/", authMiddleware.RequireSupervisor("user management"), userController.Create)
	users.Get("/supervised", userController.Supervised)
	users.Post("/assign-supervisor", authMiddleware.RequireAdmin("supervisor assignment"), userController.AssignSupervisor)
	users.Post("/assign-teams", authMiddleware.RequireAdmin("team assignment"), userController.AssignTeams)
	users.Post("/assign-committees", authMiddleware.RequireAdmin("committee assignment"), userController.AssignCommittees)

	users.Get("/:id", userController.GetByID)
	users.Patch("/:id", authMiddleware.RequireAdmin("user management"), userController.Update)
	users.Delete("/:id", authMiddleware.RequireAdmin("user management"), userController.Delete)
}
