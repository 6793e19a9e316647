package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"calidad/internal/database"
	"calidad/internal/model"
)

// Departments is the tenant-scoped data access contract for departments.
type Departments interface {
	ListDepartments(ctx context.Context, p ListDepartmentsParams) ([]model.Department, int, error)
	GetDepartment(ctx context.Context, orgID, id string) (model.Department, error)
	CreateDepartment(ctx context.Context, d model.Department) (model.Department, error)
	UpdateDepartment(ctx context.Context, orgID, id string, p UpdateDepartmentParams) (model.Department, error)
	SoftDeleteDepartment(ctx context.Context, orgID, id string) error
	DepartmentName(ctx context.Context, orgID, id string) (string, error)
}

type Employees interface {
	ListEmployees(ctx context.Context, p ListEmployeesParams) ([]model.Employee, int, error)
	GetEmployee(ctx context.Context, orgID, id string) (model.Employee, error)
	CreateEmployee(ctx context.Context, e model.Employee) (model.Employee, error)
	UpdateEmployee(ctx context.Context, orgID, id string, p UpdateEmployeeParams) (model.Employee, error)
	SoftDeleteEmployee(ctx context.Context, orgID, id string) error
	EmployeeName(ctx context.Context, orgID, id string) (string, error)
}

type Positions interface {
	ListPositions(ctx context.Context, p ListPositionsParams) ([]model.Position, int, error)
	GetPosition(ctx context.Context, orgID, id string) (model.Position, error)
	CreatePosition(ctx context.Context, pos model.Position) (model.Position, error)
	UpdatePosition(ctx context.Context, orgID, id string, p UpdatePositionParams) (model.Position, error)
	SoftDeletePosition(ctx context.Context, orgID, id string) error
	PositionName(ctx context.Context, orgID, id string) (string, error)
}

type Processes interface {
	ListProcessDefinitions(ctx context.Context, p ListProcessDefinitionsParams) ([]model.ProcessDefinition, int, error)
	GetProcessDefinition(ctx context.Context, orgID, code string) (model.ProcessDefinition, error)
	CreateProcessDefinition(ctx context.Context, d model.ProcessDefinition) (model.ProcessDefinition, error)
	UpdateProcessDefinition(ctx context.Context, orgID, code string, p UpdateProcessDefinitionParams) (model.ProcessDefinition, error)
	SoftDeleteProcessDefinition(ctx context.Context, orgID, code string) error

	ListProcessRecords(ctx context.Context, p ListProcessRecordsParams) ([]model.ProcessRecord, int, error)
	GetProcessRecord(ctx context.Context, orgID, id string) (model.ProcessRecord, error)
	CreateProcessRecord(ctx context.Context, r model.ProcessRecord) (model.ProcessRecord, error)
	UpdateProcessRecord(ctx context.Context, orgID, id string, p UpdateProcessRecordParams) (model.ProcessRecord, error)
	SoftDeleteProcessRecord(ctx context.Context, orgID, id string) error
}

type Users interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

// Repository is the full persistence surface the handlers depend on.
type Repository interface {
	Departments
	Employees
	Positions
	Processes
	Users
	HealthCheck(ctx context.Context) error
}

// Store implements Repository on Postgres.
type Store struct {
	db *database.Database
}

func NewStore(db *database.Database) *Store {
	return &Store{db: db}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// queryBuilder accumulates WHERE clauses and their positional arguments.
type queryBuilder struct {
	where []string
	args  []any
}

// add appends a clause; the format must contain a single $%d placeholder.
func (q *queryBuilder) add(format string, v any) {
	q.args = append(q.args, v)
	q.where = append(q.where, fmt.Sprintf(format, len(q.args)))
}

// search appends a case-insensitive substring match across cols.
func (q *queryBuilder) search(term string, cols ...string) {
	q.args = append(q.args, "%"+term+"%")
	n := len(q.args)
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
	}
	q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
}

func (q *queryBuilder) clause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// updateBuilder accumulates SET clauses for partial updates.
type updateBuilder struct {
	sets []string
	args []any
}

func (u *updateBuilder) set(col string, v any) {
	u.args = append(u.args, v)
	u.sets = append(u.sets, fmt.Sprintf("%s = $%d", col, len(u.args)))
}

func (u *updateBuilder) arg(v any) int {
	u.args = append(u.args, v)
	return len(u.args)
}

func (u *updateBuilder) clause() string {
	return strings.Join(u.sets, ", ")
}

func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func floatArg(f *model.Float) any {
	if f == nil {
		return nil
	}
	return float64(*f)
}

func now() time.Time {
	return time.Now().UTC()
}
