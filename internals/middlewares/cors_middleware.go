package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"intikhab_backend/internals/configs"
)

// CorsMiddleware builds the CORS layer from CORS_ALLOWED_ORIGINS.
func CorsMiddleware() fiber.Handler {
	origins := configs.CORSAllowedOrigins()
	allow := "*"
	credentials := false
	if len(origins) > 0 {
		allow = strings.Join(origins, ", ")
		credentials = true
	}
	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: credentials,
	})
}
