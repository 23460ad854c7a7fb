package repository

import (
	"errors"
	"fmt"
)

// NotFoundError reports that an identifier did not resolve to a persisted
// record. It is returned by reads for missing records and by Edit/Delete
// when the target row is absent.
type NotFoundError struct {
	// Entity is the record label, typically the table name.
	Entity string
	// Key is the identifier that failed to resolve.
	Key string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	entity := e.Entity
	if entity == "" {
		entity = "record"
	}
	if e.Key == "" {
		return fmt.Sprintf("%s not found", entity)
	}
	return fmt.Sprintf("%s not found: %s", entity, e.Key)
}

// PersistenceError reports a store-level failure: constraint violation,
// connectivity loss, serialization conflict. The underlying driver error is
// preserved for callers that need to inspect it.
type PersistenceError struct {
	// Op is the repository operation that failed, e.g. "add".
	Op string
	// Constraint carries constraint detail when the store reported one.
	Constraint string
	Err        error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("repository %s: constraint %q violated: %v", e.Op, e.Constraint, e.Err)
	}
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

// Unwrap exposes the driver error for errors.Is/As chains.
func (e *PersistenceError) Unwrap() error { return e.Err }

// TimeoutError reports that an operation's context ended, by deadline or by
// cancellation, before the store answered.
type TimeoutError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("repository %s: deadline exceeded: %v", e.Op, e.Err)
}

// Unwrap exposes the context error for errors.Is/As chains.
func (e *TimeoutError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPersistence reports whether err is, or wraps, a PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is, or wraps, a TimeoutError.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}
