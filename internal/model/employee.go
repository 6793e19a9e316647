package model

import "time"

const (
	EmployeeStatusActive    = "Activo"
	EmployeeStatusInactive  = "Inactivo"
	EmployeeStatusOnLeave   = "Licencia"
	EmployeeStatusSuspended = "Suspendido"
)

const (
	StaffTypeAdministrative = "administrativo"
	StaffTypeSales          = "ventas"
	StaffTypeTechnical      = "técnico"
	StaffTypeSupervisor     = "supervisor"
	StaffTypeManagement     = "gerencial"
	StaffTypeOperations     = "operativo"
)

type Employee struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organization_id"`
	FirstNames      string    `json:"nombres"`
	LastNames       string    `json:"apellidos"`
	Email           string    `json:"email"`
	Phone           string    `json:"telefono,omitempty"`
	IdentityDoc     string    `json:"documento_identidad,omitempty"`
	BirthDate       *Date     `json:"fecha_nacimiento,omitempty"`
	Nationality     string    `json:"nacionalidad,omitempty"`
	Address         string    `json:"direccion,omitempty"`
	EmergencyPhone  string    `json:"telefono_emergencia,omitempty"`
	HireDate        *Date     `json:"fecha_contratacion,omitempty"`
	FileNumber      string    `json:"numero_legajo,omitempty"`
	PositionID      string    `json:"puesto_id,omitempty"`
	DepartmentID    string    `json:"departamento_id,omitempty"`
	SupervisorID    string    `json:"supervisor_id,omitempty"`
	Status          string    `json:"estado"`
	StaffType       string    `json:"tipo_personal"`
	MonthlyTarget   *Float    `json:"meta_mensual,omitempty"`
	CommissionPct   *Float    `json:"comision_porcentaje,omitempty"`
	SalesSpecialty  string    `json:"especialidad_ventas,omitempty"`
	SalesStartDate  *Date     `json:"fecha_inicio_ventas,omitempty"`
	SalesZone       string    `json:"zona_venta,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (e Employee) FullName() string {
	return e.FirstNames + " " + e.LastNames
}

// EmployeeDetail augments an employee with names resolved from its
// cross-references. Dangling references leave the name empty.
type EmployeeDetail struct {
	Employee
	PositionName   string `json:"puesto_nombre,omitempty"`
	DepartmentName string `json:"departamento_nombre,omitempty"`
	SupervisorName string `json:"supervisor_nombre,omitempty"`
}
