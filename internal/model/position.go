package model

import "time"

const (
	HierarchyExecutive    = "Ejecutivo"
	HierarchyManagement   = "Gerencial"
	HierarchyCoordination = "Coordinación"
	HierarchySupervision  = "Supervisión"
	HierarchyAnalyst      = "Analista"
	HierarchyTechnical    = "Técnico"
	HierarchyOperations   = "Operativo"
)

type Position struct {
	ID               string    `json:"id"`
	Name             string    `json:"nombre"`
	Responsibilities string    `json:"descripcion_responsabilidades,omitempty"`
	ExperienceReqs   string    `json:"requisitos_experiencia,omitempty"`
	EducationReqs    string    `json:"requisitos_formacion,omitempty"`
	DepartmentID     string    `json:"departamento_id,omitempty"`
	ReportsToID      string    `json:"reporta_a_id,omitempty"`
	OrganizationID   string    `json:"organization_id"`
	HierarchyLevel   string    `json:"nivel_jerarquico,omitempty"`
	SalaryRange      string    `json:"salario_rango,omitempty"`
	EmployeeCount    Int       `json:"cantidad_empleados"`
	Status           string    `json:"estado"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PositionDetail augments a position with names resolved from its
// cross-references.
type PositionDetail struct {
	Position
	DepartmentName string `json:"departamento_nombre,omitempty"`
	ReportsToName  string `json:"reporta_a_nombre,omitempty"`
}
