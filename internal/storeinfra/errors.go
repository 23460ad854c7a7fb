package storeinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-repository-store/repository"
)

// pq error code class for integrity constraint violations.
const pqClassConstraint = "23"

// Translate maps a driver-level failure onto the repository error taxonomy.
// op names the repository operation, entity and key label the record the
// operation targeted (key may be empty for collection reads).
//
// Errors that already belong to the taxonomy pass through unchanged so the
// translation is safe to apply at every exit path.
func Translate(op, entity, key string, err error) error {
	if err == nil {
		return nil
	}

	var notFound *repository.NotFoundError
	var persistence *repository.PersistenceError
	var timeout *repository.TimeoutError
	if errors.As(err, &notFound) || errors.As(err, &persistence) || errors.As(err, &timeout) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &repository.TimeoutError{Op: op, Err: err}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &repository.NotFoundError{Entity: entity, Key: key}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code.Class() == pqClassConstraint {
			return &repository.PersistenceError{Op: op, Constraint: pqErr.Constraint, Err: err}
		}
		return &repository.PersistenceError{Op: op, Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return &repository.PersistenceError{Op: op, Constraint: sqliteErr.Error(), Err: err}
		}
		return &repository.PersistenceError{Op: op, Err: err}
	}

	return &repository.PersistenceError{Op: op, Err: err}
}
