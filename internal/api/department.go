package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"calidad/internal/cache"
	"calidad/internal/model"
	"calidad/internal/repository"
)

type createDepartmentRequest struct {
	ID             string       `json:"id" validate:"required"`
	Name           string       `json:"nombre" validate:"required,max=100"`
	Description    string       `json:"descripcion" validate:"max=500"`
	ManagerID      string       `json:"responsable_id"`
	OrganizationID string       `json:"organization_id" validate:"required"`
	Objectives     string       `json:"objetivos" validate:"max=1000"`
	Budget         *model.Float `json:"presupuesto" validate:"omitempty,gte=0"`
	EmployeeCount  *model.Int   `json:"cantidad_empleados" validate:"omitempty,gte=0"`
	Status         string       `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

type updateDepartmentRequest struct {
	Name          *string      `json:"nombre" validate:"omitempty,min=1,max=100"`
	Description   *string      `json:"descripcion" validate:"omitempty,max=500"`
	ManagerID     *string      `json:"responsable_id"`
	Objectives    *string      `json:"objetivos" validate:"omitempty,max=1000"`
	Budget        *model.Float `json:"presupuesto" validate:"omitempty,gte=0"`
	EmployeeCount *model.Int   `json:"cantidad_empleados" validate:"omitempty,gte=0"`
	Status        *string      `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (h *Handler) ListDepartments(c *fiber.Ctx) error {
	p := repository.ListDepartmentsParams{
		OrganizationID: c.Query("organization_id"),
		Status:         c.Query("estado"),
		Search:         c.Query("search"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
	normalizePage(&p.Page, &p.Limit)

	departments, total, err := h.repo.ListDepartments(c.Context(), p)
	if err != nil {
		return h.respondError(c, err, "", "Error obteniendo departamentos")
	}
	return okList(c, departments, model.NewPagination(p.Page, p.Limit, total, len(departments)))
}

func (h *Handler) GetDepartment(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	key := cache.Key("departments", orgID, id)
	if raw, hit := h.cache.Get(c.Context(), key); hit {
		return ok(c, json.RawMessage(raw))
	}

	department, err := h.repo.GetDepartment(c.Context(), orgID, id)
	if err != nil {
		return h.respondError(c, err, "Departamento no encontrado", "Error obteniendo departamento")
	}

	if raw, err := json.Marshal(department); err == nil {
		h.cache.Set(c.Context(), key, raw, h.cfg.Redis.TTL)
	}
	return ok(c, department)
}

func (h *Handler) CreateDepartment(c *fiber.Ctx) error {
	var req createDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error creando departamento")
	}

	department := model.Department{
		ID:             req.ID,
		Name:           req.Name,
		Description:    req.Description,
		ManagerID:      req.ManagerID,
		OrganizationID: req.OrganizationID,
		Objectives:     req.Objectives,
		Budget:         req.Budget,
		Status:         defaultString(req.Status, model.StatusActive),
	}
	if req.EmployeeCount != nil {
		department.EmployeeCount = *req.EmployeeCount
	}

	department, err := h.repo.CreateDepartment(c.Context(), department)
	if err != nil {
		return h.respondError(c, err, "", "Error creando departamento")
	}
	return created(c, department, "Departamento creado exitosamente")
}

func (h *Handler) UpdateDepartment(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	var req updateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error actualizando departamento")
	}

	department, err := h.repo.UpdateDepartment(c.Context(), orgID, id, repository.UpdateDepartmentParams{
		Name:          req.Name,
		Description:   req.Description,
		ManagerID:     req.ManagerID,
		Objectives:    req.Objectives,
		Budget:        req.Budget,
		EmployeeCount: req.EmployeeCount,
		Status:        req.Status,
	})
	if err != nil {
		return h.respondError(c, err, "Departamento no encontrado", "Error actualizando departamento")
	}

	h.cache.Delete(c.Context(), cache.Key("departments", orgID, id))
	return updated(c, department, "Departamento actualizado exitosamente")
}

func (h *Handler) DeleteDepartment(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	if err := h.repo.SoftDeleteDepartment(c.Context(), orgID, id); err != nil {
		return h.respondError(c, err, "Departamento no encontrado", "Error eliminando departamento")
	}

	h.cache.Delete(c.Context(), cache.Key("departments", orgID, id))
	return okMessage(c, "Departamento eliminado exitosamente")
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
