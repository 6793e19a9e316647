package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireOrganization rejects any request without the tenant query parameter.
// Every tenant-scoped read, update and delete goes through this check.
func RequireOrganization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("organization_id") == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "organization_id es requerido",
			})
		}
		return c.Next()
	}
}
