package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"calidad/internal/model"
	"calidad/internal/repository"
	"calidad/internal/validator"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func okList(c *fiber.Ctx, data any, p model.Pagination) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "pagination": p})
}

func okMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"success": true, "message": message})
}

func updated(c *fiber.Ctx, data any, message string) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "message": message})
}

func created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data, "message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": message})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": message})
}

// respondError is the single place that maps errors to the response
// taxonomy: validation 400, conflict 400, not found 404, everything else 500.
// The underlying error only reaches the client outside production.
func (h *Handler) respondError(c *fiber.Ctx, err error, notFoundMsg, fallbackMsg string) error {
	if validator.IsValidationError(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Datos de entrada inválidos",
			"details": validator.Details(err),
		})
	}

	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		return badRequest(c, conflict.Message)
	}

	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": notFoundMsg})
	}

	slog.Error(fallbackMsg, "error", err, "path", c.Path())
	resp := fiber.Map{"success": false, "error": fallbackMsg}
	if !h.cfg.Server.IsProduction() {
		resp["details"] = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}
