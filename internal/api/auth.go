package api

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"calidad/internal/model"
	"calidad/internal/repository"
	"calidad/internal/token"
)

type registerRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role" validate:"omitempty,oneof=admin manager user viewer"`
	OrganizationID string `json:"organization_id"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error registrando usuario")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cfg.Auth.BcryptCost)
	if err != nil {
		slog.Error("Hashing password failed", "error", err)
		return h.respondError(c, err, "", "Error registrando usuario")
	}

	user := model.User{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Role:           defaultString(req.Role, model.RoleUser),
		OrganizationID: defaultString(req.OrganizationID, model.DefaultOrganizationID),
		IsActive:       true,
	}

	user, err = h.repo.CreateUser(c.Context(), user)
	if err != nil {
		return h.respondError(c, err, "", "Error registrando usuario")
	}

	tok, err := h.tokens.Generate(user)
	if err != nil {
		slog.Error("Signing token failed", "error", err)
		return h.respondError(c, err, "", "Error registrando usuario")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   tok,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error iniciando sesión")
	}

	user, err := h.repo.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c, "Credenciales inválidas")
		}
		return h.respondError(c, err, "", "Error iniciando sesión")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return unauthorized(c, "Credenciales inválidas")
	}
	if !user.IsActive {
		return unauthorized(c, "Usuario inactivo")
	}

	tok, err := h.tokens.Generate(user)
	if err != nil {
		slog.Error("Signing token failed", "error", err)
		return h.respondError(c, err, "", "Error iniciando sesión")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   tok,
	})
}

func (h *Handler) Verify(c *fiber.Ctx) error {
	raw, err := token.FromAuthHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return unauthorized(c, "Token de autorización requerido")
	}

	claims, err := h.tokens.Verify(raw)
	if err != nil {
		return unauthorized(c, "Token inválido")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return unauthorized(c, "Token inválido")
	}

	user, err := h.repo.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c, "Usuario no encontrado o inactivo")
		}
		return h.respondError(c, err, "", "Error verificando token")
	}
	if !user.IsActive {
		return unauthorized(c, "Usuario no encontrado o inactivo")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
