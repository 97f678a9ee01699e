package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/users/auth/controller"
	"intikhab_backend/internals/middlewares"
	authMiddleware "intikhab_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), authController.Login)
	auth.Post("/login-google", middlewares.LoginRateLimiter(), authController.LoginGoogle)
	auth.Post("/refresh", authController.RefreshToken)

	protected := auth.Group("", authMiddleware.AuthMiddleware(db))
	protected.Post("/logout", authController.Logout)
	protected.Post("/change-password", authController.ChangePassword)
	protected.Get("/me", authController.Me)
}
