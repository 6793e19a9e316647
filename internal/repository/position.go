package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"calidad/internal/model"
)

const positionColumns = `id, nombre, descripcion_responsabilidades, requisitos_experiencia, requisitos_formacion, departamento_id, reporta_a_id, organization_id, nivel_jerarquico, salario_rango, cantidad_empleados, estado, created_at, updated_at`

var positionConflicts = map[string]*ConflictError{
	"positions_pkey": {Field: "id", Message: "Ya existe un puesto con este ID en la organización"},
}

type ListPositionsParams struct {
	OrganizationID string
	DepartmentID   string
	HierarchyLevel string
	Status         string
	Search         string
	Page           int
	Limit          int
}

type UpdatePositionParams struct {
	Name             *string
	Responsibilities *string
	ExperienceReqs   *string
	EducationReqs    *string
	DepartmentID     *string
	ReportsToID      *string
	HierarchyLevel   *string
	SalaryRange      *string
	EmployeeCount    *model.Int
	Status           *string
}

func (s *Store) ListPositions(ctx context.Context, p ListPositionsParams) ([]model.Position, int, error) {
	var qb queryBuilder
	qb.add("organization_id = $%d", p.OrganizationID)
	if p.DepartmentID != "" {
		qb.add("departamento_id = $%d", p.DepartmentID)
	}
	if p.HierarchyLevel != "" {
		qb.add("nivel_jerarquico = $%d", p.HierarchyLevel)
	}
	if p.Status != "" {
		qb.add("estado = $%d", p.Status)
	}
	if p.Search != "" {
		qb.search(p.Search, "nombre", "descripcion_responsabilidades")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM positions"+qb.clause(), qb.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM positions%s ORDER BY nombre ASC LIMIT %d OFFSET %d",
		positionColumns, qb.clause(), p.Limit, (p.Page-1)*p.Limit)
	rows, err := s.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, 0, err
		}
		positions = append(positions, pos)
	}
	return positions, total, rows.Err()
}

func (s *Store) GetPosition(ctx context.Context, orgID, id string) (model.Position, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM positions WHERE organization_id = $1 AND id = $2", positionColumns),
		orgID, id)
	pos, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, ErrNotFound
	}
	return pos, err
}

func (s *Store) CreatePosition(ctx context.Context, pos model.Position) (model.Position, error) {
	ts := now()
	pos.CreatedAt, pos.UpdatedAt = ts, ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO positions (id, nombre, descripcion_responsabilidades, requisitos_experiencia, requisitos_formacion, departamento_id, reporta_a_id, organization_id, nivel_jerarquico, salario_rango, cantidad_empleados, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		pos.ID, pos.Name, pos.Responsibilities, pos.ExperienceReqs, pos.EducationReqs,
		pos.DepartmentID, pos.ReportsToID, pos.OrganizationID, pos.HierarchyLevel,
		pos.SalaryRange, int(pos.EmployeeCount), pos.Status, pos.CreatedAt, pos.UpdatedAt)
	if err != nil {
		return model.Position{}, conflictOn(err, positionConflicts)
	}
	return pos, nil
}

func (s *Store) UpdatePosition(ctx context.Context, orgID, id string, p UpdatePositionParams) (model.Position, error) {
	var u updateBuilder
	if p.Name != nil {
		u.set("nombre", *p.Name)
	}
	if p.Responsibilities != nil {
		u.set("descripcion_responsabilidades", *p.Responsibilities)
	}
	if p.ExperienceReqs != nil {
		u.set("requisitos_experiencia", *p.ExperienceReqs)
	}
	if p.EducationReqs != nil {
		u.set("requisitos_formacion", *p.EducationReqs)
	}
	if p.DepartmentID != nil {
		u.set("departamento_id", *p.DepartmentID)
	}
	if p.ReportsToID != nil {
		u.set("reporta_a_id", *p.ReportsToID)
	}
	if p.HierarchyLevel != nil {
		u.set("nivel_jerarquico", *p.HierarchyLevel)
	}
	if p.SalaryRange != nil {
		u.set("salario_rango", *p.SalaryRange)
	}
	if p.EmployeeCount != nil {
		u.set("cantidad_empleados", int(*p.EmployeeCount))
	}
	if p.Status != nil {
		u.set("estado", *p.Status)
	}
	u.set("updated_at", now())

	query := fmt.Sprintf("UPDATE positions SET %s WHERE organization_id = $%d AND id = $%d RETURNING %s",
		u.clause(), u.arg(orgID), u.arg(id), positionColumns)
	pos, err := scanPosition(s.db.QueryRowContext(ctx, query, u.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, ErrNotFound
	}
	return pos, err
}

func (s *Store) SoftDeletePosition(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE positions SET estado = $1, updated_at = $2 WHERE organization_id = $3 AND id = $4",
		model.StatusInactive, now(), orgID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// PositionName resolves a position reference to its name. A dangling
// reference yields an empty name.
func (s *Store) PositionName(ctx context.Context, orgID, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT nombre FROM positions WHERE organization_id = $1 AND id = $2", orgID, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return name, err
}

func scanPosition(row interface{ Scan(dest ...any) error }) (model.Position, error) {
	var p model.Position
	err := row.Scan(&p.ID, &p.Name, &p.Responsibilities, &p.ExperienceReqs, &p.EducationReqs,
		&p.DepartmentID, &p.ReportsToID, &p.OrganizationID, &p.HierarchyLevel,
		&p.SalaryRange, &p.EmployeeCount, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Position{}, err
	}
	return p, nil
}
