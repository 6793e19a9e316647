package model

import "time"

const (
	ProcessTypeStrategic   = "estrategico"
	ProcessTypeOperational = "operativo"
	ProcessTypeSupport     = "soporte"
)

const (
	RecordStatusPending    = "pendiente"
	RecordStatusInProgress = "en_proceso"
	RecordStatusCompleted  = "completado"
	RecordStatusCancelled  = "cancelado"
)

const (
	PriorityLow    = "baja"
	PriorityMedium = "media"
	PriorityHigh   = "alta"
)

type ProcessDefinition struct {
	Code           string    `json:"codigo"`
	Name           string    `json:"nombre"`
	Description    string    `json:"descripcion"`
	Type           string    `json:"tipo"`
	OwnerID        string    `json:"propietario_id"`
	DepartmentID   string    `json:"departamento_id,omitempty"`
	OrganizationID string    `json:"organization_id"`
	Active         bool      `json:"activo"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProcessDefinitionDetail augments a definition with its resolved department
// name.
type ProcessDefinitionDetail struct {
	ProcessDefinition
	DepartmentName string `json:"departamento_nombre,omitempty"`
}

type ProcessRecord struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	ProcessCode    string    `json:"proceso_id"`
	Title          string    `json:"titulo"`
	Description    string    `json:"descripcion,omitempty"`
	Status         string    `json:"estado"`
	ResponsibleID  string    `json:"responsable_id"`
	StartDate      *Date     `json:"fecha_inicio,omitempty"`
	EndDate        *Date     `json:"fecha_fin,omitempty"`
	Priority       string    `json:"prioridad"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
