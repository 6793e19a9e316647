package model

import "time"

const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
)

type Department struct {
	ID             string    `json:"id"`
	Name           string    `json:"nombre"`
	Description    string    `json:"descripcion,omitempty"`
	ManagerID      string    `json:"responsable_id,omitempty"`
	OrganizationID string    `json:"organization_id"`
	Objectives     string    `json:"objetivos,omitempty"`
	Budget         *Float    `json:"presupuesto,omitempty"`
	EmployeeCount  Int       `json:"cantidad_empleados"`
	Status         string    `json:"estado"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
