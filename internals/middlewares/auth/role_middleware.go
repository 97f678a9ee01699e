package auth

import (
	"github.com/gofiber/fiber/v2"

	"intikhab_backend/internals/constants"
)

// RequireRoles lets through only principals whose role is in the allow list.
// Must run after AuthMiddleware.
func RequireRoles(message string, allowed ...string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if _, ok := set[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, message)
		}
		return c.Next()
	}
}

func RequireAdmin(feature string) fiber.Handler {
	return RequireRoles(constants.RoleErrorAdmin(feature), constants.AdminAndAbove...)
}

func RequireSupervisor(feature string) fiber.Handler {
	return RequireRoles(constants.RoleErrorSupervisor(feature), constants.SupervisorAndAbove...)
}
