package api

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Health returns the health status of the application.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.repo.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   os.Getenv("VERSION"),
	})
}
