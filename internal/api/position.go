package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"calidad/internal/cache"
	"calidad/internal/model"
	"calidad/internal/repository"
)

type createPositionRequest struct {
	ID               string     `json:"id" validate:"required"`
	Name             string     `json:"nombre" validate:"required,max=100"`
	Responsibilities string     `json:"descripcion_responsabilidades" validate:"max=1000"`
	ExperienceReqs   string     `json:"requisitos_experiencia" validate:"max=500"`
	EducationReqs    string     `json:"requisitos_formacion" validate:"max=500"`
	DepartmentID     string     `json:"departamento_id"`
	ReportsToID      string     `json:"reporta_a_id"`
	OrganizationID   string     `json:"organization_id" validate:"required"`
	HierarchyLevel   string     `json:"nivel_jerarquico" validate:"omitempty,oneof=Ejecutivo Gerencial Coordinación Supervisión Analista Técnico Operativo"`
	SalaryRange      string     `json:"salario_rango" validate:"max=50"`
	EmployeeCount    *model.Int `json:"cantidad_empleados" validate:"omitempty,gte=0"`
	Status           string     `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

type updatePositionRequest struct {
	Name             *string    `json:"nombre" validate:"omitempty,min=1,max=100"`
	Responsibilities *string    `json:"descripcion_responsabilidades" validate:"omitempty,max=1000"`
	ExperienceReqs   *string    `json:"requisitos_experiencia" validate:"omitempty,max=500"`
	EducationReqs    *string    `json:"requisitos_formacion" validate:"omitempty,max=500"`
	DepartmentID     *string    `json:"departamento_id"`
	ReportsToID      *string    `json:"reporta_a_id"`
	HierarchyLevel   *string    `json:"nivel_jerarquico" validate:"omitempty,oneof=Ejecutivo Gerencial Coordinación Supervisión Analista Técnico Operativo"`
	SalaryRange      *string    `json:"salario_rango" validate:"omitempty,max=50"`
	EmployeeCount    *model.Int `json:"cantidad_empleados" validate:"omitempty,gte=0"`
	Status           *string    `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (h *Handler) ListPositions(c *fiber.Ctx) error {
	p := repository.ListPositionsParams{
		OrganizationID: c.Query("organization_id"),
		DepartmentID:   c.Query("departamento_id"),
		HierarchyLevel: c.Query("nivel_jerarquico"),
		Status:         c.Query("estado"),
		Search:         c.Query("search"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
	normalizePage(&p.Page, &p.Limit)

	positions, total, err := h.repo.ListPositions(c.Context(), p)
	if err != nil {
		return h.respondError(c, err, "", "Error obteniendo puestos")
	}
	return okList(c, positions, model.NewPagination(p.Page, p.Limit, total, len(positions)))
}

func (h *Handler) GetPosition(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	key := cache.Key("positions", orgID, id)
	if raw, hit := h.cache.Get(c.Context(), key); hit {
		return ok(c, json.RawMessage(raw))
	}

	position, err := h.repo.GetPosition(c.Context(), orgID, id)
	if err != nil {
		return h.respondError(c, err, "Puesto no encontrado", "Error obteniendo puesto")
	}

	detail := model.PositionDetail{Position: position}
	detail.DepartmentName = h.resolveDepartmentName(c, orgID, position.DepartmentID)
	detail.ReportsToName = h.resolvePositionName(c, orgID, position.ReportsToID)

	if raw, err := json.Marshal(detail); err == nil {
		h.cache.Set(c.Context(), key, raw, h.cfg.Redis.TTL)
	}
	return ok(c, detail)
}

func (h *Handler) CreatePosition(c *fiber.Ctx) error {
	var req createPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error creando puesto")
	}

	position := model.Position{
		ID:               req.ID,
		Name:             req.Name,
		Responsibilities: req.Responsibilities,
		ExperienceReqs:   req.ExperienceReqs,
		EducationReqs:    req.EducationReqs,
		DepartmentID:     req.DepartmentID,
		ReportsToID:      req.ReportsToID,
		OrganizationID:   req.OrganizationID,
		HierarchyLevel:   req.HierarchyLevel,
		SalaryRange:      req.SalaryRange,
		Status:           defaultString(req.Status, model.StatusActive),
	}
	if req.EmployeeCount != nil {
		position.EmployeeCount = *req.EmployeeCount
	}

	position, err := h.repo.CreatePosition(c.Context(), position)
	if err != nil {
		return h.respondError(c, err, "", "Error creando puesto")
	}
	return created(c, position, "Puesto creado exitosamente")
}

func (h *Handler) UpdatePosition(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	var req updatePositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error actualizando puesto")
	}

	position, err := h.repo.UpdatePosition(c.Context(), orgID, id, repository.UpdatePositionParams{
		Name:             req.Name,
		Responsibilities: req.Responsibilities,
		ExperienceReqs:   req.ExperienceReqs,
		EducationReqs:    req.EducationReqs,
		DepartmentID:     req.DepartmentID,
		ReportsToID:      req.ReportsToID,
		HierarchyLevel:   req.HierarchyLevel,
		SalaryRange:      req.SalaryRange,
		EmployeeCount:    req.EmployeeCount,
		Status:           req.Status,
	})
	if err != nil {
		return h.respondError(c, err, "Puesto no encontrado", "Error actualizando puesto")
	}

	h.cache.Delete(c.Context(), cache.Key("positions", orgID, id))
	return updated(c, position, "Puesto actualizado exitosamente")
}

func (h *Handler) DeletePosition(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	if err := h.repo.SoftDeletePosition(c.Context(), orgID, id); err != nil {
		return h.respondError(c, err, "Puesto no encontrado", "Error eliminando puesto")
	}

	h.cache.Delete(c.Context(), cache.Key("positions", orgID, id))
	return okMessage(c, "Puesto eliminado exitosamente")
}
