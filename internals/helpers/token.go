package helper

import (
	"github.com/gofiber/fiber/v2"

	"intikhab_backend/internals/constants"
)

// Auth middleware stores the verified claims in locals; these accessors are the
// only way controllers read them.

func GetUserIDFromToken(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals("user_id").(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in context")
	}
	return id, nil
}

func GetRoleFromToken(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func IsAdminOrAbove(c *fiber.Ctx) bool {
	return constants.IsAdminOrAbove(GetRoleFromToken(c))
}

func IsSupervisorOrAbove(c *fiber.Ctx) bool {
	return constants.IsSupervisorOrAbove(GetRoleFromToken(c))
}

// GetCommitteesFromToken returns the committee codes the principal may access.
// Memoized per request; admins are unrestricted and get nil here.
func GetCommitteesFromToken(c *fiber.Ctx) []string {
	if cached, ok := c.Locals("_cached_committees").([]string); ok {
		return cached
	}
	codes, _ := c.Locals("committees").([]string)
	c.Locals("_cached_committees", codes)
	return codes
}

// CanAccessCommittee implements the scope rule: admins see everything, others
// only their assigned committee codes.
func CanAccessCommittee(c *fiber.Ctx, code string) bool {
	if IsAdminOrAbove(c) {
		return true
	}
	for _, cc := range GetCommitteesFromToken(c) {
		if cc == code {
			return true
		}
	}
	return false
}
