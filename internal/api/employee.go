package api

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"calidad/internal/cache"
	"calidad/internal/model"
	"calidad/internal/repository"
)

type createEmployeeRequest struct {
	ID             string       `json:"id" validate:"required"`
	OrganizationID string       `json:"organization_id" validate:"required"`
	FirstNames     string       `json:"nombres" validate:"required,max=50"`
	LastNames      string       `json:"apellidos" validate:"required,max=50"`
	Email          string       `json:"email" validate:"required,email"`
	Phone          string       `json:"telefono" validate:"max=20"`
	IdentityDoc    string       `json:"documento_identidad" validate:"max=20"`
	BirthDate      *model.Date  `json:"fecha_nacimiento"`
	Nationality    string       `json:"nacionalidad" validate:"max=50"`
	Address        string       `json:"direccion" validate:"max=200"`
	EmergencyPhone string       `json:"telefono_emergencia" validate:"max=20"`
	HireDate       *model.Date  `json:"fecha_contratacion"`
	FileNumber     string       `json:"numero_legajo" validate:"max=20"`
	PositionID     string       `json:"puesto_id"`
	DepartmentID   string       `json:"departamento_id"`
	SupervisorID   string       `json:"supervisor_id"`
	Status         string       `json:"estado" validate:"omitempty,oneof=Activo Inactivo Licencia Suspendido"`
	StaffType      string       `json:"tipo_personal" validate:"omitempty,oneof=administrativo ventas técnico supervisor gerencial operativo"`
	MonthlyTarget  *model.Float `json:"meta_mensual" validate:"omitempty,gte=0"`
	CommissionPct  *model.Float `json:"comision_porcentaje" validate:"omitempty,gte=0,lte=100"`
	SalesSpecialty string       `json:"especialidad_ventas" validate:"max=100"`
	SalesStartDate *model.Date  `json:"fecha_inicio_ventas"`
	SalesZone      string       `json:"zona_venta" validate:"max=50"`
}

type updateEmployeeRequest struct {
	FirstNames     *string      `json:"nombres" validate:"omitempty,min=1,max=50"`
	LastNames      *string      `json:"apellidos" validate:"omitempty,min=1,max=50"`
	Email          *string      `json:"email" validate:"omitempty,email"`
	Phone          *string      `json:"telefono" validate:"omitempty,max=20"`
	IdentityDoc    *string      `json:"documento_identidad" validate:"omitempty,max=20"`
	BirthDate      *model.Date  `json:"fecha_nacimiento"`
	Nationality    *string      `json:"nacionalidad" validate:"omitempty,max=50"`
	Address        *string      `json:"direccion" validate:"omitempty,max=200"`
	EmergencyPhone *string      `json:"telefono_emergencia" validate:"omitempty,max=20"`
	HireDate       *model.Date  `json:"fecha_contratacion"`
	FileNumber     *string      `json:"numero_legajo" validate:"omitempty,max=20"`
	PositionID     *string      `json:"puesto_id"`
	DepartmentID   *string      `json:"departamento_id"`
	SupervisorID   *string      `json:"supervisor_id"`
	Status         *string      `json:"estado" validate:"omitempty,oneof=Activo Inactivo Licencia Suspendido"`
	StaffType      *string      `json:"tipo_personal" validate:"omitempty,oneof=administrativo ventas técnico supervisor gerencial operativo"`
	MonthlyTarget  *model.Float `json:"meta_mensual" validate:"omitempty,gte=0"`
	CommissionPct  *model.Float `json:"comision_porcentaje" validate:"omitempty,gte=0,lte=100"`
	SalesSpecialty *string      `json:"especialidad_ventas" validate:"omitempty,max=100"`
	SalesStartDate *model.Date  `json:"fecha_inicio_ventas"`
	SalesZone      *string      `json:"zona_venta" validate:"omitempty,max=50"`
}

func (h *Handler) ListEmployees(c *fiber.Ctx) error {
	p := repository.ListEmployeesParams{
		OrganizationID: c.Query("organization_id"),
		DepartmentID:   c.Query("departamento_id"),
		PositionID:     c.Query("puesto_id"),
		StaffType:      c.Query("tipo_personal"),
		Status:         c.Query("estado"),
		Search:         c.Query("search"),
		Page:           c.QueryInt("page", 1),
		Limit:          c.QueryInt("limit", 20),
	}
	normalizePage(&p.Page, &p.Limit)

	employees, total, err := h.repo.ListEmployees(c.Context(), p)
	if err != nil {
		return h.respondError(c, err, "", "Error obteniendo empleados")
	}
	return okList(c, employees, model.NewPagination(p.Page, p.Limit, total, len(employees)))
}

func (h *Handler) GetEmployee(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	key := cache.Key("employees", orgID, id)
	if raw, hit := h.cache.Get(c.Context(), key); hit {
		return ok(c, json.RawMessage(raw))
	}

	employee, err := h.repo.GetEmployee(c.Context(), orgID, id)
	if err != nil {
		return h.respondError(c, err, "Empleado no encontrado", "Error obteniendo empleado")
	}

	detail := model.EmployeeDetail{Employee: employee}
	detail.PositionName = h.resolvePositionName(c, orgID, employee.PositionID)
	detail.DepartmentName = h.resolveDepartmentName(c, orgID, employee.DepartmentID)
	detail.SupervisorName = h.resolveEmployeeName(c, orgID, employee.SupervisorID)

	if raw, err := json.Marshal(detail); err == nil {
		h.cache.Set(c.Context(), key, raw, h.cfg.Redis.TTL)
	}
	return ok(c, detail)
}

func (h *Handler) CreateEmployee(c *fiber.Ctx) error {
	var req createEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error creando empleado")
	}

	employee := model.Employee{
		ID:             req.ID,
		OrganizationID: req.OrganizationID,
		FirstNames:     req.FirstNames,
		LastNames:      req.LastNames,
		Email:          req.Email,
		Phone:          req.Phone,
		IdentityDoc:    req.IdentityDoc,
		BirthDate:      req.BirthDate,
		Nationality:    req.Nationality,
		Address:        req.Address,
		EmergencyPhone: req.EmergencyPhone,
		HireDate:       req.HireDate,
		FileNumber:     req.FileNumber,
		PositionID:     req.PositionID,
		DepartmentID:   req.DepartmentID,
		SupervisorID:   req.SupervisorID,
		Status:         defaultString(req.Status, model.EmployeeStatusActive),
		StaffType:      defaultString(req.StaffType, model.StaffTypeAdministrative),
		MonthlyTarget:  req.MonthlyTarget,
		CommissionPct:  req.CommissionPct,
		SalesSpecialty: req.SalesSpecialty,
		SalesStartDate: req.SalesStartDate,
		SalesZone:      req.SalesZone,
	}

	employee, err := h.repo.CreateEmployee(c.Context(), employee)
	if err != nil {
		return h.respondError(c, err, "", "Error creando empleado")
	}
	return created(c, employee, "Empleado creado exitosamente")
}

func (h *Handler) UpdateEmployee(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	var req updateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Datos de entrada inválidos")
	}
	if req.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*req.Email))
		req.Email = &normalized
	}
	if err := h.validate.Validate(req); err != nil {
		return h.respondError(c, err, "", "Error actualizando empleado")
	}

	employee, err := h.repo.UpdateEmployee(c.Context(), orgID, id, repository.UpdateEmployeeParams{
		FirstNames:     req.FirstNames,
		LastNames:      req.LastNames,
		Email:          req.Email,
		Phone:          req.Phone,
		IdentityDoc:    req.IdentityDoc,
		BirthDate:      req.BirthDate,
		Nationality:    req.Nationality,
		Address:        req.Address,
		EmergencyPhone: req.EmergencyPhone,
		HireDate:       req.HireDate,
		FileNumber:     req.FileNumber,
		PositionID:     req.PositionID,
		DepartmentID:   req.DepartmentID,
		SupervisorID:   req.SupervisorID,
		Status:         req.Status,
		StaffType:      req.StaffType,
		MonthlyTarget:  req.MonthlyTarget,
		CommissionPct:  req.CommissionPct,
		SalesSpecialty: req.SalesSpecialty,
		SalesStartDate: req.SalesStartDate,
		SalesZone:      req.SalesZone,
	})
	if err != nil {
		return h.respondError(c, err, "Empleado no encontrado", "Error actualizando empleado")
	}

	h.cache.Delete(c.Context(), cache.Key("employees", orgID, id))
	return updated(c, employee, "Empleado actualizado exitosamente")
}

func (h *Handler) DeleteEmployee(c *fiber.Ctx) error {
	orgID, id := c.Query("organization_id"), c.Params("id")

	if err := h.repo.SoftDeleteEmployee(c.Context(), orgID, id); err != nil {
		return h.respondError(c, err, "Empleado no encontrado", "Error eliminando empleado")
	}

	h.cache.Delete(c.Context(), cache.Key("employees", orgID, id))
	return okMessage(c, "Empleado eliminado exitosamente")
}

// Reference resolution is lenient: a dangling or failing lookup leaves the
// name empty rather than failing the request.

func (h *Handler) resolveDepartmentName(c *fiber.Ctx, orgID, id string) string {
	if id == "" {
		return ""
	}
	name, err := h.repo.DepartmentName(c.Context(), orgID, id)
	if err != nil {
		slog.Warn("Failed to resolve department name", "id", id, "error", err)
		return ""
	}
	return name
}

func (h *Handler) resolvePositionName(c *fiber.Ctx, orgID, id string) string {
	if id == "" {
		return ""
	}
	name, err := h.repo.PositionName(c.Context(), orgID, id)
	if err != nil {
		slog.Warn("Failed to resolve position name", "id", id, "error", err)
		return ""
	}
	return name
}

func (h *Handler) resolveEmployeeName(c *fiber.Ctx, orgID, id string) string {
	if id == "" {
		return ""
	}
	name, err := h.repo.EmployeeName(c.Context(), orgID, id)
	if err != nil {
		slog.Warn("Failed to resolve employee name", "id", id, "error", err)
		return ""
	}
	return name
}
