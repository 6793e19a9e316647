package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"calidad/internal/model"
)

const departmentColumns = `id, nombre, descripcion, responsable_id, organization_id, objetivos, presupuesto, cantidad_empleados, estado, created_at, updated_at`

var departmentConflicts = map[string]*ConflictError{
	"departments_pkey": {Field: "id", Message: "Ya existe un departamento con este ID en la organización"},
}

type ListDepartmentsParams struct {
	OrganizationID string
	Status         string
	Search         string
	Page           int
	Limit          int
}

type UpdateDepartmentParams struct {
	Name          *string
	Description   *string
	ManagerID     *string
	Objectives    *string
	Budget        *model.Float
	EmployeeCount *model.Int
	Status        *string
}

func (s *Store) ListDepartments(ctx context.Context, p ListDepartmentsParams) ([]model.Department, int, error) {
	var qb queryBuilder
	qb.add("organization_id = $%d", p.OrganizationID)
	if p.Status != "" {
		qb.add("estado = $%d", p.Status)
	}
	if p.Search != "" {
		qb.search(p.Search, "nombre", "descripcion")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM departments"+qb.clause(), qb.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM departments%s ORDER BY nombre ASC LIMIT %d OFFSET %d",
		departmentColumns, qb.clause(), p.Limit, (p.Page-1)*p.Limit)
	rows, err := s.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	departments := []model.Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		departments = append(departments, d)
	}
	return departments, total, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, orgID, id string) (model.Department, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM departments WHERE organization_id = $1 AND id = $2", departmentColumns),
		orgID, id)
	d, err := scanDepartment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Department{}, ErrNotFound
	}
	return d, err
}

func (s *Store) CreateDepartment(ctx context.Context, d model.Department) (model.Department, error) {
	ts := now()
	d.CreatedAt, d.UpdatedAt = ts, ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO departments (id, nombre, descripcion, responsable_id, organization_id, objetivos, presupuesto, cantidad_empleados, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.Name, d.Description, d.ManagerID, d.OrganizationID, d.Objectives,
		floatArg(d.Budget), int(d.EmployeeCount), d.Status, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return model.Department{}, conflictOn(err, departmentConflicts)
	}
	return d, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, orgID, id string, p UpdateDepartmentParams) (model.Department, error) {
	var u updateBuilder
	if p.Name != nil {
		u.set("nombre", *p.Name)
	}
	if p.Description != nil {
		u.set("descripcion", *p.Description)
	}
	if p.ManagerID != nil {
		u.set("responsable_id", *p.ManagerID)
	}
	if p.Objectives != nil {
		u.set("objetivos", *p.Objectives)
	}
	if p.Budget != nil {
		u.set("presupuesto", float64(*p.Budget))
	}
	if p.EmployeeCount != nil {
		u.set("cantidad_empleados", int(*p.EmployeeCount))
	}
	if p.Status != nil {
		u.set("estado", *p.Status)
	}
	u.set("updated_at", now())

	query := fmt.Sprintf("UPDATE departments SET %s WHERE organization_id = $%d AND id = $%d RETURNING %s",
		u.clause(), u.arg(orgID), u.arg(id), departmentColumns)
	d, err := scanDepartment(s.db.QueryRowContext(ctx, query, u.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Department{}, ErrNotFound
	}
	return d, err
}

func (s *Store) SoftDeleteDepartment(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE departments SET estado = $1, updated_at = $2 WHERE organization_id = $3 AND id = $4",
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

// DepartmentName resolves a department reference to its name. A dangling
// reference yields an empty name, not an error.
func (s *Store) DepartmentName(ctx context.Context, orgID, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT nombre FROM departments WHERE organization_id = $1 AND id = $2", orgID, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return name, err
}

func scanDepartment(row interface{ Scan(dest ...any) error }) (model.Department, error) {
	var d model.Department
	var budget sql.NullFloat64
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.OrganizationID,
		&d.Objectives, &budget, &d.EmployeeCount, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.Department{}, err
	}
	if budget.Valid {
		f := model.Float(budget.Float64)
		d.Budget = &f
	}
	return d, nil
}
