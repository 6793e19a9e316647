package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no record matches the (tenant, id) pair.
var ErrNotFound = errors.New("record not found")

// ConflictError reports a unique-constraint collision and names the field
// that collided.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// conflictOn translates a Postgres unique violation into the ConflictError
// registered for the violated constraint. The unique indexes are the
// duplicate check: there is no read-before-write.
func conflictOn(err error, constraints map[string]*ConflictError) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if c, ok := constraints[pqErr.Constraint]; ok {
			return c
		}
	}
	return err
}
