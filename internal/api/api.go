package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"calidad/internal/cache"
	"calidad/internal/config"
	"calidad/internal/middleware"
	"calidad/internal/repository"
	"calidad/internal/token"
	"calidad/internal/validator"
)

type Handler struct {
	cfg      *config.Config
	repo     repository.Repository
	validate *validator.Validator
	tokens   *token.Manager
	cache    cache.Cache
}

func NewHandler(cfg *config.Config, repo repository.Repository, validate *validator.Validator, tokens *token.Manager, cacheStore cache.Cache) Handler {
	return Handler{cfg: cfg, repo: repo, validate: validate, tokens: tokens, cache: cacheStore}
}

// Router builds the Fiber app with all routes and middleware attached.
func Router(h Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "calidad",
		ReadTimeout:  h.cfg.Server.ReadTimeout,
		WriteTimeout: h.cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// Rate limiting for credential endpoints
	authLimiter := limiter.New(limiter.Config{
		Max:        h.cfg.Server.AuthRateLimit,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Demasiados intentos. Intente nuevamente más tarde.",
			})
		},
	})

	api := app.Group("/api")
	api.Get("/health", h.Health)

	auth := api.Group("/auth")
	auth.Post("/register", authLimiter, h.Register)
	auth.Post("/login", authLimiter, h.Login)
	auth.Get("/verify", h.Verify)

	requireOrg := middleware.RequireOrganization()

	departments := api.Group("/departments")
	departments.Post("/", h.CreateDepartment)
	departments.Get("/", requireOrg, h.ListDepartments)
	departments.Get("/:id", requireOrg, h.GetDepartment)
	departments.Put("/:id", requireOrg, h.UpdateDepartment)
	departments.Delete("/:id", requireOrg, h.DeleteDepartment)

	employees := api.Group("/employees")
	employees.Post("/", h.CreateEmployee)
	employees.Get("/", requireOrg, h.ListEmployees)
	employees.Get("/:id", requireOrg, h.GetEmployee)
	employees.Put("/:id", requireOrg, h.UpdateEmployee)
	employees.Delete("/:id", requireOrg, h.DeleteEmployee)

	positions := api.Group("/positions")
	positions.Post("/", h.CreatePosition)
	positions.Get("/", requireOrg, h.ListPositions)
	positions.Get("/:id", requireOrg, h.GetPosition)
	positions.Put("/:id", requireOrg, h.UpdatePosition)
	positions.Delete("/:id", requireOrg, h.DeletePosition)

	procesos := api.Group("/procesos")

	definiciones := procesos.Group("/definiciones")
	definiciones.Post("/", h.CreateProcessDefinition)
	definiciones.Get("/", requireOrg, h.ListProcessDefinitions)
	definiciones.Get("/:id", requireOrg, h.GetProcessDefinition)
	definiciones.Put("/:id", requireOrg, h.UpdateProcessDefinition)
	definiciones.Delete("/:id", requireOrg, h.DeleteProcessDefinition)

	registros := procesos.Group("/registros")
	registros.Post("/", h.CreateProcessRecord)
	registros.Get("/", requireOrg, h.ListProcessRecords)
	registros.Get("/:id", requireOrg, h.GetProcessRecord)
	registros.Put("/:id", requireOrg, h.UpdateProcessRecord)
	registros.Delete("/:id", requireOrg, h.DeleteProcessRecord)

	return app
}

// normalizePage clamps pagination parameters to sane defaults.
func normalizePage(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 20
	}
	if *limit > 100 {
		*limit = 100
	}
}
