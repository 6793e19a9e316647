package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"calidad/internal/model"
)

const processDefinitionColumns = `codigo, nombre, descripcion, tipo, propietario_id, departamento_id, organization_id, activo, created_at, updated_at`

const processRecordColumns = `id, organization_id, proceso_id, titulo, descripcion, estado, responsable_id, fecha_inicio, fecha_fin, prioridad, created_at, updated_at`

var processDefinitionConflicts = map[string]*ConflictError{
	"process_definitions_pkey": {Field: "codigo", Message: "Ya existe un proceso con este código en la organización"},
}

type ListProcessDefinitionsParams struct {
	OrganizationID string
	Type           string
	Active         *bool
	Search         string
	Page           int
	Limit          int
}

type UpdateProcessDefinitionParams struct {
	Name         *string
	Description  *string
	Type         *string
	OwnerID      *string
	DepartmentID *string
	Active       *bool
}

type ListProcessRecordsParams struct {
	OrganizationID string
	ProcessCode    string
	Status         string
	Priority       string
	ResponsibleID  string
	Search         string
	Page           int
	Limit          int
}

type UpdateProcessRecordParams struct {
	Title         *string
	Description   *string
	Status        *string
	ResponsibleID *string
	StartDate     *model.Date
	EndDate       *model.Date
	Priority      *string
}

func (s *Store) ListProcessDefinitions(ctx context.Context, p ListProcessDefinitionsParams) ([]model.ProcessDefinition, int, error) {
	var qb queryBuilder
	qb.add("organization_id = $%d", p.OrganizationID)
	if p.Type != "" {
		qb.add("tipo = $%d", p.Type)
	}
	if p.Active != nil {
		qb.add("activo = $%d", *p.Active)
	}
	if p.Search != "" {
		qb.search(p.Search, "codigo", "nombre", "descripcion")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM process_definitions"+qb.clause(), qb.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM process_definitions%s ORDER BY codigo ASC LIMIT %d OFFSET %d",
		processDefinitionColumns, qb.clause(), p.Limit, (p.Page-1)*p.Limit)
	rows, err := s.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	definitions := []model.ProcessDefinition{}
	for rows.Next() {
		d, err := scanProcessDefinition(rows)
		if err != nil {
			return nil, 0, err
		}
		definitions = append(definitions, d)
	}
	return definitions, total, rows.Err()
}

func (s *Store) GetProcessDefinition(ctx context.Context, orgID, code string) (model.ProcessDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM process_definitions WHERE organization_id = $1 AND codigo = $2", processDefinitionColumns),
		orgID, code)
	d, err := scanProcessDefinition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProcessDefinition{}, ErrNotFound
	}
	return d, err
}

func (s *Store) CreateProcessDefinition(ctx context.Context, d model.ProcessDefinition) (model.ProcessDefinition, error) {
	ts := now()
	d.CreatedAt, d.UpdatedAt = ts, ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO process_definitions (codigo, nombre, descripcion, tipo, propietario_id, departamento_id, organization_id, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.Code, d.Name, d.Description, d.Type, d.OwnerID, d.DepartmentID,
		d.OrganizationID, d.Active, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return model.ProcessDefinition{}, conflictOn(err, processDefinitionConflicts)
	}
	return d, nil
}

func (s *Store) UpdateProcessDefinition(ctx context.Context, orgID, code string, p UpdateProcessDefinitionParams) (model.ProcessDefinition, error) {
	var u updateBuilder
	if p.Name != nil {
		u.set("nombre", *p.Name)
	}
	if p.Description != nil {
		u.set("descripcion", *p.Description)
	}
	if p.Type != nil {
		u.set("tipo", *p.Type)
	}
	if p.OwnerID != nil {
		u.set("propietario_id", *p.OwnerID)
	}
	if p.DepartmentID != nil {
		u.set("departamento_id", *p.DepartmentID)
	}
	if p.Active != nil {
		u.set("activo", *p.Active)
	}
	u.set("updated_at", now())

	query := fmt.Sprintf("UPDATE process_definitions SET %s WHERE organization_id = $%d AND codigo = $%d RETURNING %s",
		u.clause(), u.arg(orgID), u.arg(code), processDefinitionColumns)
	d, err := scanProcessDefinition(s.db.QueryRowContext(ctx, query, u.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProcessDefinition{}, ErrNotFound
	}
	return d, err
}

func (s *Store) SoftDeleteProcessDefinition(ctx context.Context, orgID, code string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE process_definitions SET activo = false, updated_at = $1 WHERE organization_id = $2 AND codigo = $3",
		now(), orgID, code)
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

func (s *Store) ListProcessRecords(ctx context.Context, p ListProcessRecordsParams) ([]model.ProcessRecord, int, error) {
	var qb queryBuilder
	qb.add("organization_id = $%d", p.OrganizationID)
	if p.ProcessCode != "" {
		qb.add("proceso_id = $%d", p.ProcessCode)
	}
	if p.Status != "" {
		qb.add("estado = $%d", p.Status)
	}
	if p.Priority != "" {
		qb.add("prioridad = $%d", p.Priority)
	}
	if p.ResponsibleID != "" {
		qb.add("responsable_id = $%d", p.ResponsibleID)
	}
	if p.Search != "" {
		qb.search(p.Search, "titulo", "descripcion")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM process_records"+qb.clause(), qb.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM process_records%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		processRecordColumns, qb.clause(), p.Limit, (p.Page-1)*p.Limit)
	rows, err := s.db.QueryContext(ctx, query, qb.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []model.ProcessRecord{}
	for rows.Next() {
		r, err := scanProcessRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, r)
	}
	return records, total, rows.Err()
}

func (s *Store) GetProcessRecord(ctx context.Context, orgID, id string) (model.ProcessRecord, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM process_records WHERE organization_id = $1 AND id = $2", processRecordColumns),
		orgID, id)
	r, err := scanProcessRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProcessRecord{}, ErrNotFound
	}
	return r, err
}

func (s *Store) CreateProcessRecord(ctx context.Context, r model.ProcessRecord) (model.ProcessRecord, error) {
	ts := now()
	r.CreatedAt, r.UpdatedAt = ts, ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO process_records (id, organization_id, proceso_id, titulo, descripcion, estado, responsable_id, fecha_inicio, fecha_fin, prioridad, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.OrganizationID, r.ProcessCode, r.Title, r.Description, r.Status,
		r.ResponsibleID, dateArg(r.StartDate), dateArg(r.EndDate), r.Priority,
		r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return model.ProcessRecord{}, err
	}
	return r, nil
}

func (s *Store) UpdateProcessRecord(ctx context.Context, orgID, id string, p UpdateProcessRecordParams) (model.ProcessRecord, error) {
	var u updateBuilder
	if p.Title != nil {
		u.set("titulo", *p.Title)
	}
	if p.Description != nil {
		u.set("descripcion", *p.Description)
	}
	if p.Status != nil {
		u.set("estado", *p.Status)
	}
	if p.ResponsibleID != nil {
		u.set("responsable_id", *p.ResponsibleID)
	}
	if p.StartDate != nil {
		u.set("fecha_inicio", p.StartDate.Time)
	}
	if p.EndDate != nil {
		u.set("fecha_fin", p.EndDate.Time)
	}
	if p.Priority != nil {
		u.set("prioridad", *p.Priority)
	}
	u.set("updated_at", now())

	query := fmt.Sprintf("UPDATE process_records SET %s WHERE organization_id = $%d AND id = $%d RETURNING %s",
		u.clause(), u.arg(orgID), u.arg(id), processRecordColumns)
	r, err := scanProcessRecord(s.db.QueryRowContext(ctx, query, u.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProcessRecord{}, ErrNotFound
	}
	return r, err
}

func (s *Store) SoftDeleteProcessRecord(ctx context.Context, orgID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE process_records SET estado = $1, updated_at = $2 WHERE organization_id = $3 AND id = $4",
		model.RecordStatusCancelled, now(), orgID, id)
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

func scanProcessDefinition(row interface{ Scan(dest ...any) error }) (model.ProcessDefinition, error) {
	var d model.ProcessDefinition
	err := row.Scan(&d.Code, &d.Name, &d.Description, &d.Type, &d.OwnerID,
		&d.DepartmentID, &d.OrganizationID, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.ProcessDefinition{}, err
	}
	return d, nil
}

func scanProcessRecord(row interface{ Scan(dest ...any) error }) (model.ProcessRecord, error) {
	var r model.ProcessRecord
	var start, end sql.NullTime
	err := row.Scan(&r.ID, &r.OrganizationID, &r.ProcessCode, &r.Title, &r.Description,
		&r.Status, &r.ResponsibleID, &start, &end, &r.Priority, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.ProcessRecord{}, err
	}
	if start.Valid {
		d := model.NewDate(start.Time)
		r.StartDate = &d
	}
	if end.Valid {
		d := model.NewDate(end.Time)
		r.EndDate = &d
	}
	return r, nil
}
