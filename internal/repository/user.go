package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"calidad/internal/model"
)

const userColumns = `id, name, email, password_hash, role, organization_id, is_active, created_at, updated_at`

var userConflicts = map[string]*ConflictError{
	"users_email_key": {Field: "email", Message: "El usuario ya existe"},
}

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, organization_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.OrganizationID,
		u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return model.User{}, conflictOn(err, userConflicts)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func scanUser(row interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.OrganizationID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}
