package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares installs the base middleware chain (order matters:
// recovery first so panics inside the others are still caught).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
