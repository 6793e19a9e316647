package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"calidad/internal/model"
)

const employeeColumns = `id, organization_id, nombres, apellidos, email, telefono, documento_identidad, fecha_nacimiento, nacionalidad, direccion, telefono_emergencia, fecha_contratacion, numero_legajo, puesto_id, departamento_id, supervisor_id, estado, tipo_personal, meta_mensual, comision_porcentaje, especialidad_ventas, fecha_inicio_ventas, zona_venta, created_at, updated_at`

var employeeConflicts = map[string]*ConflictError{
	"employees_pkey":          {Field: "id", Message: "Ya existe un empleado con este ID en la organización"},
	"employees_org_email_key": {Field: "email", Message: "Ya existe un empleado con este email en la organización"},
}

type ListEmployeesParams struct {
	OrganizationID string
	DepartmentID   string
	PositionID     string
	StaffType      string
	Status         string
	Search         string
	Page           int
	Limit          int
}

type UpdateEmployeeParams struct {
	FirstNames     *string
	LastNames      *string
	Email          *string
	Phone          *string
	IdentityDoc    *string
	BirthDate      *model.Date
	Nationality    *string
	Address        *string
	EmergencyPhone *string
	HireDate       *model.Date
	FileNumber     *string
	PositionID     *string
	DepartmentID   *string
	SupervisorID   *string
	Status         *string
	StaffType      *string
	MonthlyTarget  *model.Float
	CommissionPct  *model.Float
	SalesSpecialty *string
	SalesStartDate *model.Date
	SalesZone      *string
}

func (s *Store) ListEmployees(ctx context.Context, p ListEmployeesParams) ([]model.Employee, int, error) {
	var qb queryBuilder
	qb.add("organization_id = $%d", p.OrganizationID)
	if p.DepartmentID != "" {
		qb.add("departamento_id = $%d", p.DepartmentID)
	}
	if p.PositionID != "" {
		qb.add("puesto_id = $%d", p.PositionID)
	}
	if p.StaffType != "" {
		qb.add("tipo_personal = $%d", p.StaffType)
	}
	if p.Status != "" {
		qb.add("estado = $%d", p.Status)
	}
	if p.Search != "" {
		qb.search(p.Search, "nombres", "apellidos", "email", "numero_legajo")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees"+qb.clause(), qb.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM employees%s ORDER BY apellidos ASC, nombres ASC LIMIT %d OFFSET %d",
		employeeColumns, qb.clause(), p.Limit, (p.Page-1)*p.Limit)
	rows, err := s.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, orgID, id string) (model.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM employees WHERE organization_id = $1 AND id = $2", employeeColumns),
		orgID, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, e model.Employee) (model.Employee, error) {
	ts := now()
	e.CreatedAt, e.UpdatedAt = ts, ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, organization_id, nombres, apellidos, email, telefono, documento_identidad, fecha_nacimiento, nacionalidad, direccion, telefono_emergencia, fecha_contratacion, numero_legajo, puesto_id, departamento_id, supervisor_id, estado, tipo_personal, meta_mensual, comision_porcentaje, especialidad_ventas, fecha_inicio_ventas, zona_venta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		e.ID, e.OrganizationID, e.FirstNames, e.LastNames, e.Email, e.Phone, e.IdentityDoc,
		dateArg(e.BirthDate), e.Nationality, e.Address, e.EmergencyPhone, dateArg(e.HireDate),
		e.FileNumber, e.PositionID, e.DepartmentID, e.SupervisorID, e.Status, e.StaffType,
		floatArg(e.MonthlyTarget), floatArg(e.CommissionPct), e.SalesSpecialty,
		dateArg(e.SalesStartDate), e.SalesZone, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return model.Employee{}, conflictOn(err, employeeConflicts)
	}
	return e, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, orgID, id string, p UpdateEmployeeParams) (model.Employee, error) {
	var u updateBuilder
	if p.FirstNames != nil {
		u.set("nombres", *p.FirstNames)
	}
	if p.LastNames != nil {
		u.set("apellidos", *p.LastNames)
	}
	if p.Email != nil {
		u.set("email", *p.Email)
	}
	if p.Phone != nil {
		u.set("telefono", *p.Phone)
	}
	if p.IdentityDoc != nil {
		u.set("documento_identidad", *p.IdentityDoc)
	}
	if p.BirthDate != nil {
		u.set("fecha_nacimiento", p.BirthDate.Time)
	}
	if p.Nationality != nil {
		u.set("nacionalidad", *p.Nationality)
	}
	if p.Address != nil {
		u.set("direccion", *p.Address)
	}
	if p.EmergencyPhone != nil {
		u.set("telefono_emergencia", *p.EmergencyPhone)
	}
	if p.HireDate != nil {
		u.set("fecha_contratacion", p.HireDate.Time)
	}
	if p.FileNumber != nil {
		u.set("numero_legajo", *p.FileNumber)
	}
	if p.PositionID != nil {
		u.set("puesto_id", *p.PositionID)
	}
	if p.DepartmentID != nil {
		u.set("departamento_id", *p.DepartmentID)
	}
	if p.SupervisorID != nil {
		u.set("supervisor_id", *p.SupervisorID)
	}
	if p.Status != nil {
		u.set("estado", *p.Status)
	}
	if p.StaffType != nil {
		u.set("tipo_personal", *p.StaffType)
	}
	if p.MonthlyTarget != nil {
		u.set("meta_mensual", float64(*p.MonthlyTarget))
	}
	if p.CommissionPct != nil {
		u.set("comision_porcentaje", float64(*p.CommissionPct))
	}
	if p.SalesSpecialty != nil {
		u.set("especialidad_ventas", *p.SalesSpecialty)
	}
	if p.SalesStartDate != nil {
		u.set("fecha_inicio_ventas", p.SalesStartDate.Time)
	}
	if p.SalesZone != nil {
		u.set("zona_venta", *p.SalesZone)
	}
	u.set("updated_at", now())

	query := fmt.Sprintf("UPDATE employees SET %s WHERE organization_id = $%d AND id = $%d RETURNING %s",
		u.clause(), u.arg(orgID), u.arg(id), employeeColumns)
	e, err := scanEmployee(s.db.QueryRowContext(ctx, query, u.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	if err != nil {
		return model.Employee{}, conflictOn(err, employeeConflicts)
	}
	return e, nil
}

func (s *Store) SoftDeleteEmployee(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE employees SET estado = $1, updated_at = $2 WHERE organization_id = $3 AND id = $4",
		model.EmployeeStatusInactive, now(), orgID, id)
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

// EmployeeName resolves an employee reference to its full name. A dangling
// reference yields an empty name.
func (s *Store) EmployeeName(ctx context.Context, orgID, id string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT nombres || ' ' || apellidos FROM employees WHERE organization_id = $1 AND id = $2",
		orgID, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return name, err
}

func scanEmployee(row interface{ Scan(dest ...any) error }) (model.Employee, error) {
	var e model.Employee
	var birthDate, hireDate, salesStart sql.NullTime
	var monthlyTarget, commissionPct sql.NullFloat64
	err := row.Scan(&e.ID, &e.OrganizationID, &e.FirstNames, &e.LastNames, &e.Email,
		&e.Phone, &e.IdentityDoc, &birthDate, &e.Nationality, &e.Address,
		&e.EmergencyPhone, &hireDate, &e.FileNumber, &e.PositionID, &e.DepartmentID,
		&e.SupervisorID, &e.Status, &e.StaffType, &monthlyTarget, &commissionPct,
		&e.SalesSpecialty, &salesStart, &e.SalesZone, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Employee{}, err
	}
	if birthDate.Valid {
		d := model.NewDate(birthDate.Time)
		e.BirthDate = &d
	}
	if hireDate.Valid {
		d := model.NewDate(hireDate.Time)
		e.HireDate = &d
	}
	if salesStart.Valid {
		d := model.NewDate(salesStart.Time)
		e.SalesStartDate = &d
	}
	if monthlyTarget.Valid {
		f := model.Float(monthlyTarget.Float64)
		e.MonthlyTarget = &f
	}
	if commissionPct.Valid {
		f := model.Float(commissionPct.Float64)
		e.CommissionPct = &f
	}
	return e, nil
}
