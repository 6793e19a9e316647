package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"calidad/internal/api"
	"calidad/internal/cache"
	"calidad/internal/config"
	"calidad/internal/model"
	"calidad/internal/repository"
	"calidad/internal/token"
	"calidad/internal/validator"
)

// fakeRepo is an in-memory repository.Repository used by the handler tests.
type fakeRepo struct {
	mu          sync.Mutex
	departments map[string]model.Department
	positions   map[string]model.Position
	employees   map[string]model.Employee
	definitions map[string]model.ProcessDefinition
	records     map[string]model.ProcessRecord
	users       map[string]model.User
	healthErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		departments: make(map[string]model.Department),
		positions:   make(map[string]model.Position),
		employees:   make(map[string]model.Employee),
		definitions: make(map[string]model.ProcessDefinition),
		records:     make(map[string]model.ProcessRecord),
		users:       make(map[string]model.User),
	}
}

func key(orgID, id string) string {
	return orgID + "/" + id
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, limit int) ([]T, int) {
	total := len(items)
	start := (page - 1) * limit
	if start >= total {
		return []T{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], total
}

func (f *fakeRepo) HealthCheck(ctx context.Context) error {
	return f.healthErr
}

func (f *fakeRepo) ListDepartments(_ context.Context, p repository.ListDepartmentsParams) ([]model.Department, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []model.Department{}
	for _, d := range f.departments {
		if d.OrganizationID != p.OrganizationID {
			continue
		}
		if p.Status != "" && d.Status != p.Status {
			continue
		}
		if !matches(p.Search, d.Name, d.Description) {
			continue
		}
		items = append(items, d)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	page, total := paginate(items, p.Page, p.Limit)
	return page, total, nil
}

func (f *fakeRepo) GetDepartment(_ context.Context, orgID, id string) (model.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.departments[key(orgID, id)]
	if !ok {
		return model.Department{}, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) CreateDepartment(_ context.Context, d model.Department) (model.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(d.OrganizationID, d.ID)
	if _, exists := f.departments[k]; exists {
		return model.Department{}, &repository.ConflictError{Field: "id", Message: "Ya existe un departamento con este ID en la organización"}
	}
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	f.departments[k] = d
	return d, nil
}

func (f *fakeRepo) UpdateDepartment(_ context.Context, orgID, id string, p repository.UpdateDepartmentParams) (model.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	d, ok := f.departments[k]
	if !ok {
		return model.Department{}, repository.ErrNotFound
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.ManagerID != nil {
		d.ManagerID = *p.ManagerID
	}
	if p.Objectives != nil {
		d.Objectives = *p.Objectives
	}
	if p.Budget != nil {
		d.Budget = p.Budget
	}
	if p.EmployeeCount != nil {
		d.EmployeeCount = *p.EmployeeCount
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	d.UpdatedAt = time.Now().UTC()
	f.departments[k] = d
	return d, nil
}

func (f *fakeRepo) SoftDeleteDepartment(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	d, ok := f.departments[k]
	if !ok {
		return repository.ErrNotFound
	}
	d.Status = model.StatusInactive
	d.UpdatedAt = time.Now().UTC()
	f.departments[k] = d
	return nil
}

func (f *fakeRepo) DepartmentName(_ context.Context, orgID, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.departments[key(orgID, id)]; ok {
		return d.Name, nil
	}
	return "", nil
}

func (f *fakeRepo) ListEmployees(_ context.Context, p repository.ListEmployeesParams) ([]model.Employee, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []model.Employee{}
	for _, e := range f.employees {
		if e.OrganizationID != p.OrganizationID {
			continue
		}
		if p.DepartmentID != "" && e.DepartmentID != p.DepartmentID {
			continue
		}
		if p.PositionID != "" && e.PositionID != p.PositionID {
			continue
		}
		if p.StaffType != "" && e.StaffType != p.StaffType {
			continue
		}
		if p.Status != "" && e.Status != p.Status {
			continue
		}
		if !matches(p.Search, e.FirstNames, e.LastNames, e.Email, e.FileNumber) {
			continue
		}
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastNames != items[j].LastNames {
			return items[i].LastNames < items[j].LastNames
		}
		return items[i].FirstNames < items[j].FirstNames
	})
	page, total := paginate(items, p.Page, p.Limit)
	return page, total, nil
}

func (f *fakeRepo) GetEmployee(_ context.Context, orgID, id string) (model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[key(orgID, id)]
	if !ok {
		return model.Employee{}, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) emailTaken(orgID, email, exceptID string) bool {
	for _, e := range f.employees {
		if e.OrganizationID == orgID && e.Email == email && e.ID != exceptID {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateEmployee(_ context.Context, e model.Employee) (model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(e.OrganizationID, e.ID)
	if _, exists := f.employees[k]; exists {
		return model.Employee{}, &repository.ConflictError{Field: "id", Message: "Ya existe un empleado con este ID en la organización"}
	}
	if f.emailTaken(e.OrganizationID, e.Email, e.ID) {
		return model.Employee{}, &repository.ConflictError{Field: "email", Message: "Ya existe un empleado con este email en la organización"}
	}
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	f.employees[k] = e
	return e, nil
}

func (f *fakeRepo) UpdateEmployee(_ context.Context, orgID, id string, p repository.UpdateEmployeeParams) (model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	e, ok := f.employees[k]
	if !ok {
		return model.Employee{}, repository.ErrNotFound
	}
	if p.Email != nil {
		if f.emailTaken(orgID, *p.Email, id) {
			return model.Employee{}, &repository.ConflictError{Field: "email", Message: "Ya existe un empleado con este email en la organización"}
		}
		e.Email = *p.Email
	}
	if p.FirstNames != nil {
		e.FirstNames = *p.FirstNames
	}
	if p.LastNames != nil {
		e.LastNames = *p.LastNames
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.IdentityDoc != nil {
		e.IdentityDoc = *p.IdentityDoc
	}
	if p.BirthDate != nil {
		e.BirthDate = p.BirthDate
	}
	if p.Nationality != nil {
		e.Nationality = *p.Nationality
	}
	if p.Address != nil {
		e.Address = *p.Address
	}
	if p.EmergencyPhone != nil {
		e.EmergencyPhone = *p.EmergencyPhone
	}
	if p.HireDate != nil {
		e.HireDate = p.HireDate
	}
	if p.FileNumber != nil {
		e.FileNumber = *p.FileNumber
	}
	if p.PositionID != nil {
		e.PositionID = *p.PositionID
	}
	if p.DepartmentID != nil {
		e.DepartmentID = *p.DepartmentID
	}
	if p.SupervisorID != nil {
		e.SupervisorID = *p.SupervisorID
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.StaffType != nil {
		e.StaffType = *p.StaffType
	}
	if p.MonthlyTarget != nil {
		e.MonthlyTarget = p.MonthlyTarget
	}
	if p.CommissionPct != nil {
		e.CommissionPct = p.CommissionPct
	}
	if p.SalesSpecialty != nil {
		e.SalesSpecialty = *p.SalesSpecialty
	}
	if p.SalesStartDate != nil {
		e.SalesStartDate = p.SalesStartDate
	}
	if p.SalesZone != nil {
		e.SalesZone = *p.SalesZone
	}
	e.UpdatedAt = time.Now().UTC()
	f.employees[k] = e
	return e, nil
}

func (f *fakeRepo) SoftDeleteEmployee(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	e, ok := f.employees[k]
	if !ok {
		return repository.ErrNotFound
	}
	e.Status = model.EmployeeStatusInactive
	e.UpdatedAt = time.Now().UTC()
	f.employees[k] = e
	return nil
}

func (f *fakeRepo) EmployeeName(_ context.Context, orgID, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.employees[key(orgID, id)]; ok {
		return e.FullName(), nil
	}
	return "", nil
}

func (f *fakeRepo) ListPositions(_ context.Context, p repository.ListPositionsParams) ([]model.Position, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []model.Position{}
	for _, pos := range f.positions {
		if pos.OrganizationID != p.OrganizationID {
			continue
		}
		if p.DepartmentID != "" && pos.DepartmentID != p.DepartmentID {
			continue
		}
		if p.HierarchyLevel != "" && pos.HierarchyLevel != p.HierarchyLevel {
			continue
		}
		if p.Status != "" && pos.Status != p.Status {
			continue
		}
		if !matches(p.Search, pos.Name, pos.Responsibilities) {
			continue
		}
		items = append(items, pos)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	page, total := paginate(items, p.Page, p.Limit)
	return page, total, nil
}

func (f *fakeRepo) GetPosition(_ context.Context, orgID, id string) (model.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pos, ok := f.positions[key(orgID, id)]
	if !ok {
		return model.Position{}, repository.ErrNotFound
	}
	return pos, nil
}

func (f *fakeRepo) CreatePosition(_ context.Context, pos model.Position) (model.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(pos.OrganizationID, pos.ID)
	if _, exists := f.positions[k]; exists {
		return model.Position{}, &repository.ConflictError{Field: "id", Message: "Ya existe un puesto con este ID en la organización"}
	}
	pos.CreatedAt = time.Now().UTC()
	pos.UpdatedAt = pos.CreatedAt
	f.positions[k] = pos
	return pos, nil
}

func (f *fakeRepo) UpdatePosition(_ context.Context, orgID, id string, p repository.UpdatePositionParams) (model.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	pos, ok := f.positions[k]
	if !ok {
		return model.Position{}, repository.ErrNotFound
	}
	if p.Name != nil {
		pos.Name = *p.Name
	}
	if p.Responsibilities != nil {
		pos.Responsibilities = *p.Responsibilities
	}
	if p.ExperienceReqs != nil {
		pos.ExperienceReqs = *p.ExperienceReqs
	}
	if p.EducationReqs != nil {
		pos.EducationReqs = *p.EducationReqs
	}
	if p.DepartmentID != nil {
		pos.DepartmentID = *p.DepartmentID
	}
	if p.ReportsToID != nil {
		pos.ReportsToID = *p.ReportsToID
	}
	if p.HierarchyLevel != nil {
		pos.HierarchyLevel = *p.HierarchyLevel
	}
	if p.SalaryRange != nil {
		pos.SalaryRange = *p.SalaryRange
	}
	if p.EmployeeCount != nil {
		pos.EmployeeCount = *p.EmployeeCount
	}
	if p.Status != nil {
		pos.Status = *p.Status
	}
	pos.UpdatedAt = time.Now().UTC()
	f.positions[k] = pos
	return pos, nil
}

func (f *fakeRepo) SoftDeletePosition(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	pos, ok := f.positions[k]
	if !ok {
		return repository.ErrNotFound
	}
	pos.Status = model.StatusInactive
	pos.UpdatedAt = time.Now().UTC()
	f.positions[k] = pos
	return nil
}

func (f *fakeRepo) PositionName(_ context.Context, orgID, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pos, ok := f.positions[key(orgID, id)]; ok {
		return pos.Name, nil
	}
	return "", nil
}

func (f *fakeRepo) ListProcessDefinitions(_ context.Context, p repository.ListProcessDefinitionsParams) ([]model.ProcessDefinition, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []model.ProcessDefinition{}
	for _, d := range f.definitions {
		if d.OrganizationID != p.OrganizationID {
			continue
		}
		if p.Type != "" && d.Type != p.Type {
			continue
		}
		if p.Active != nil && d.Active != *p.Active {
			continue
		}
		if !matches(p.Search, d.Code, d.Name, d.Description) {
			continue
		}
		items = append(items, d)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	page, total := paginate(items, p.Page, p.Limit)
	return page, total, nil
}

func (f *fakeRepo) GetProcessDefinition(_ context.Context, orgID, code string) (model.ProcessDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.definitions[key(orgID, code)]
	if !ok {
		return model.ProcessDefinition{}, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeRepo) CreateProcessDefinition(_ context.Context, d model.ProcessDefinition) (model.ProcessDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(d.OrganizationID, d.Code)
	if _, exists := f.definitions[k]; exists {
		return model.ProcessDefinition{}, &repository.ConflictError{Field: "codigo", Message: "Ya existe un proceso con este código en la organización"}
	}
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	f.definitions[k] = d
	return d, nil
}

func (f *fakeRepo) UpdateProcessDefinition(_ context.Context, orgID, code string, p repository.UpdateProcessDefinitionParams) (model.ProcessDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, code)
	d, ok := f.definitions[k]
	if !ok {
		return model.ProcessDefinition{}, repository.ErrNotFound
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.OwnerID != nil {
		d.OwnerID = *p.OwnerID
	}
	if p.DepartmentID != nil {
		d.DepartmentID = *p.DepartmentID
	}
	if p.Active != nil {
		d.Active = *p.Active
	}
	d.UpdatedAt = time.Now().UTC()
	f.definitions[k] = d
	return d, nil
}

func (f *fakeRepo) SoftDeleteProcessDefinition(_ context.Context, orgID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, code)
	d, ok := f.definitions[k]
	if !ok {
		return repository.ErrNotFound
	}
	d.Active = false
	d.UpdatedAt = time.Now().UTC()
	f.definitions[k] = d
	return nil
}

func (f *fakeRepo) ListProcessRecords(_ context.Context, p repository.ListProcessRecordsParams) ([]model.ProcessRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []model.ProcessRecord{}
	for _, r := range f.records {
		if r.OrganizationID != p.OrganizationID {
			continue
		}
		if p.ProcessCode != "" && r.ProcessCode != p.ProcessCode {
			continue
		}
		if p.Status != "" && r.Status != p.Status {
			continue
		}
		if p.Priority != "" && r.Priority != p.Priority {
			continue
		}
		if p.ResponsibleID != "" && r.ResponsibleID != p.ResponsibleID {
			continue
		}
		if !matches(p.Search, r.Title, r.Description) {
			continue
		}
		items = append(items, r)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	page, total := paginate(items, p.Page, p.Limit)
	return page, total, nil
}

func (f *fakeRepo) GetProcessRecord(_ context.Context, orgID, id string) (model.ProcessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[key(orgID, id)]
	if !ok {
		return model.ProcessRecord{}, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) CreateProcessRecord(_ context.Context, r model.ProcessRecord) (model.ProcessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	f.records[key(r.OrganizationID, r.ID)] = r
	return r, nil
}

func (f *fakeRepo) UpdateProcessRecord(_ context.Context, orgID, id string, p repository.UpdateProcessRecordParams) (model.ProcessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	r, ok := f.records[k]
	if !ok {
		return model.ProcessRecord{}, repository.ErrNotFound
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.ResponsibleID != nil {
		r.ResponsibleID = *p.ResponsibleID
	}
	if p.StartDate != nil {
		r.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		r.EndDate = p.EndDate
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	r.UpdatedAt = time.Now().UTC()
	f.records[k] = r
	return r, nil
}

func (f *fakeRepo) SoftDeleteProcessRecord(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(orgID, id)
	r, ok := f.records[k]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = model.RecordStatusCancelled
	r.UpdatedAt = time.Now().UTC()
	f.records[k] = r
	return nil
}

func (f *fakeRepo) CreateUser(_ context.Context, u model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[u.Email]; exists {
		return model.User{}, &repository.ConflictError{Field: "email", Message: "El usuario ya existe"}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.Email] = u
	return u, nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Server.Environment = "production"
	cfg.Server.AuthRateLimit = 1000
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return cfg
}

func newTestApp(t *testing.T) (*fiber.App, *fakeRepo) {
	t.Helper()
	cfg := testConfig()
	repo := newFakeRepo()
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	h := api.NewHandler(cfg, repo, validator.New(), tokens, cache.NewMemory())
	return api.Router(h), repo
}

func doRequest(t *testing.T, app *fiber.App, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
