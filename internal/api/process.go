package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"calidad/internal/model"
	"calidad/internal/repository"
)

type createProcessDefinitionRequest struct {
	Code           string `json:"codigo" validate:"required,codigo_proceso"`
	Name           string `json:"nombre" validate:"required,min=3,max=200"`
	Description    string `json:"descripcion" validate:"required,min=10"`
	Type           string `json:"tipo" validate:"required,oneof=estrategico operativo soporte"`
	OwnerID        string `json:"propietario_id" validate:"required"`
	DepartmentID   string `json:"departamento_id"`
	OrganizationID string `json:"organization_id" validate:"required"`
	Active         *bool  `json:"activo"`
}

type updateProcessDefinitionRequest struct {
	Name         *string `json:"nombre" validate:"omitempty,min=3,max=200"`
	Description  *string `json:"descripcion" validate:"omitempty,min=10"`
	Type         *string `json:"tipo" validate:"omitempty,oneof=estrategico operativo soporte"`
	OwnerID      *string `json:"propietario_id" validate:"omitempty,min=1"`
	DepartmentID *string `json:"departamento_id"`
	Active       *bool   `json:"activo"`
}

type createProcessRecordRequest struct {
	OrganizationID string      `json:"organization_id" validate:"required"`
	ProcessCode    string      `json:"proceso_id" validate:"required"`
	Title          string      `json:"titulo" validate:"required"`
	Description    string      `json:"descripcion"`
	Status         string      `json:"estado" validate:"omitempty,oneof=pendiente en_proceso completado cancelado"`
	ResponsibleID  string      `json:"responsable_id" validate:"required"`
	StartDate      *model.Date `json:"fecha_inicio"`
	EndDate        *model.Date `json:"fecha_fin"`
	Priority       string      `json:"prioridad" validate:"omitempty,oneof=baja media alta"`
}

type updateProcessRecordRequest struct {
	Title         *string     `json:"titulo" validate:"omitempty,min=1"`
	Description   *string     `json:"descripcion"`
	Status        *string     `json:"estado" validate:"omitempty,oneof=pendiente en_proceso completado cancelado"`
	ResponsibleID *string     `json:"responsable_id" validate:"omitempty,min=1"`
	StartDate     *model.Date `json:"fecha_inicio"`
	EndDate       *model.Date `json:"fecha_fin"`
	Priority      *string     `json:"prioridad" validate:"omitempty,oneof=baja media alta"`
}

func (h *Handler) ListProcessDefinitions(c *fiber.Ctx) error {
	p := repository.ListProcessDefinitionsParams{
		OrganizationID: c.Query("organization_id"),
		Type:           c.Query("tipo"),
		Search:         c.Query("search"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
	if active := c.Query("activo"); active != "" {
		if v, err := strconv.ParseBool(active); err == nil {
			p.Active = &v
		}
	}
	normalizePage(&p.Page, &p.Limit)

	definitions, total, err := h.repo.ListProcessDefinitions(c.Context(), p)
	if err != nil {
		return h.respondError(c, err, "", "Error obteniendo procesos")
	}
	return okList(c, definitions, model.NewPagination(p.Page, p.Limit, total, len(definitions)))
}

func (h *Handler) GetProcessDefinition(c *fiber.Ctx) error {
	orgID, code := c.Query("organization_id"), strings.ToUpper(c.Params("id"))

	definition, err := h.repo.GetProcessDefinition(c.Context(), orgID, code)
	if err != nil {
		return h.respondError(c, err, "Proceso no encontrado", "Error obteniendo proceso")
	}

	detail := model.ProcessDefinitionDetail{ProcessDefinition: definition}
	detail.DepartmentName = h.resolveDepartmentName(c, orgID, definition.DepartmentID)
	return ok(c, detail)
}

func (h *Handler) CreateProcessDefinition(c *fiber.Ctx) error {
	var req createProcessDefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error creando proceso")
	}

	definition := model.ProcessDefinition{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Type:           req.Type,
		OwnerID:        req.OwnerID,
		DepartmentID:   req.DepartmentID,
		OrganizationID: req.OrganizationID,
		Active:         true,
	}
	if req.Active != nil {
		definition.Active = *req.Active
	}

	definition, err := h.repo.CreateProcessDefinition(c.Context(), definition)
	if err != nil {
		return h.respondError(c, err, "", "Error creando proceso")
	}
	return created(c, definition, "Proceso creado exitosamente")
}

func (h *Handler) UpdateProcessDefinition(c *fiber.Ctx) error {
	orgID, code := c.Query("organization_id"), strings.ToUpper(c.Params("id"))

	var req updateProcessDefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error actualizando proceso")
	}

	definition, err := h.repo.UpdateProcessDefinition(c.Context(), orgID, code, repository.UpdateProcessDefinitionParams{
		Name:         req.Name,
		Description:  req.Description,
		Type:         req.Type,
		OwnerID:      req.OwnerID,
		DepartmentID: req.DepartmentID,
		Active:       req.Active,
	})
	if err != nil {
		return h.respondError(c, err, "Proceso no encontrado", "Error actualizando proceso")
	}
	return updated(c, definition, "Proceso actualizado exitosamente")
}

func (h *Handler) DeleteProcessDefinition(c *fiber.Ctx) error {
	orgID, code := c.Query("organization_id"), strings.ToUpper(c.Params("id"))

	if err := h.repo.SoftDeleteProcessDefinition(c.Context(), orgID, code); err != nil {
		return h.respondError(c, err, "Proceso no encontrado", "Error eliminando proceso")
	}
	return okMessage(c, "Proceso eliminado exitosamente")
}

func (h *Handler) ListProcessRecords(c *fiber.Ctx) error {
	p := repository.ListProcessRecordsParams{
		OrganizationID: c.Query("organization_id"),
		ProcessCode:    c.Query("proceso_id"),
		Status:         c.Query("estado"),
		Priority:       c.Query("prioridad"),
		ResponsibleID:  c.Query("responsable_id"),
		Search:         c.Query("search"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
	normalizePage(&p.Page, &p.Limit)

	records, total, err := h.repo.ListProcessRecords(c.Context(), p)
	if err != nil {
		return h.respondError(c, err, "", "Error obteniendo registros")
	}
	return okList(c, records, model.NewPagination(p.Page, p.Limit, total, len(records)))
}

func (h *Handler) GetProcessRecord(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	record, err := h.repo.GetProcessRecord(c.Context(), orgID, id)
	if err != nil {
		return h.respondError(c, err, "Registro no encontrado", "Error obteniendo registro")
	}
	return ok(c, record)
}

func (h *Handler) CreateProcessRecord(c *fiber.Ctx) error {
	var req createProcessRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error creando registro")
	}

	record := model.ProcessRecord{
		ID:             uuid.NewString(),
		OrganizationID: req.OrganizationID,
		ProcessCode:    strings.ToUpper(req.ProcessCode),
		Title:          req.Title,
		Description:    req.Description,
		Status:         defaultString(req.Status, model.RecordStatusPending),
		ResponsibleID:  req.ResponsibleID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Priority:       defaultString(req.Priority, model.PriorityMedium),
	}

	record, err := h.repo.CreateProcessRecord(c.Context(), record)
	if err != nil {
		return h.respondError(c, err, "", "Error creando registro")
	}
	return created(c, record, "Registro creado exitosamente")
}

func (h *Handler) UpdateProcessRecord(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	var req updateProcessRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error actualizando registro")
	}

	record, err := h.repo.UpdateProcessRecord(c.Context(), orgID, id, repository.UpdateProcessRecordParams{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		ResponsibleID: req.ResponsibleID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Priority:      req.Priority,
	})
	if err != nil {
		return h.respondError(c, err, "Registro no encontrado", "Error actualizando registro")
	}
	return updated(c, record, "Registro actualizado exitosamente")
}

func (h *Handler) DeleteProcessRecord(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	if err := h.repo.SoftDeleteProcessRecord(c.Context(), orgID, id); err != nil {
		return h.respondError(c, err, "Registro no encontrado", "Error eliminando registro")
	}
	return okMessage(c, "Registro eliminado exitosamente")
}
