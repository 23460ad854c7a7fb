package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Entity is the capability every persisted record must provide: a primary
// key owned by the store. The ID is zero for transient records and is
// assigned during Add; once assigned it never changes.
type Entity interface {
	GetID() int64
	SetID(int64)
}

// ModelHandlers holds the per-model hooks a generic repository needs but
// cannot derive from the type parameter alone.
//
// NewRecord is required: repositories use it to allocate destination records
// for reads (T is typically a pointer type, so the zero value is nil).
//
// The identifier hooks are optional and enable natural-key lookups via
// GetByIdentifier. When both hooks are set and a record reaches Add with an
// empty identifier, the repository assigns a fresh UUID.
type ModelHandlers[T Entity] struct {
	NewRecord func() T

	// IdentifierField is the column holding the natural key, e.g. "email".
	IdentifierField string
	GetIdentifier   func(T) string
	SetIdentifier   func(T, string)
}

// Validate checks that the handlers are usable by a repository implementation.
func (h ModelHandlers[T]) Validate() error {
	if h.NewRecord == nil {
		return fmt.Errorf("model handlers: NewRecord is required")
	}
	if h.IdentifierField != "" && (h.GetIdentifier == nil || h.SetIdentifier == nil) {
		return fmt.Errorf("model handlers: IdentifierField requires GetIdentifier and SetIdentifier")
	}
	return nil
}

// HasIdentifier reports whether natural-key lookups are configured.
func (h ModelHandlers[T]) HasIdentifier() bool {
	return h.IdentifierField != "" && h.GetIdentifier != nil && h.SetIdentifier != nil
}

// EnsureIdentifier assigns a UUID natural key to the record when identifier
// hooks are configured and the record does not carry one yet.
func (h ModelHandlers[T]) EnsureIdentifier(record T) {
	if !h.HasIdentifier() {
		return
	}
	if h.GetIdentifier(record) != "" {
		return
	}
	h.SetIdentifier(record, uuid.New().String())
}

// Repository exposes collection-like operations over a persistent store
// without exposing store-specific connection details. Read operations accept
// optional criteria that the backing store evaluates itself; filters are
// pushed down, never applied against a fully materialized result set.
//
// Every operation is a single atomic request against the store. The
// repository performs no retries and no local recovery: store-level failures
// surface to the caller as *NotFoundError, *PersistenceError or
// *TimeoutError (see errors.go).
type Repository[T Entity] interface {
	// GetByID returns the record with the given primary key.
	GetByID(ctx context.Context, id int64, criteria ...SelectCriteria) (T, error)

	// GetByIdentifier returns the record with the given natural key. It
	// requires identifier handlers to be configured for the model.
	GetByIdentifier(ctx context.Context, identifier string, criteria ...SelectCriteria) (T, error)

	// Get returns the first record matching the criteria.
	Get(ctx context.Context, criteria ...SelectCriteria) (T, error)

	// List returns every record matching the criteria. Ordering is the
	// store default unless the criteria specify one.
	List(ctx context.Context, criteria ...SelectCriteria) ([]T, error)

	// Count returns the number of records matching the criteria.
	Count(ctx context.Context, criteria ...SelectCriteria) (int, error)

	// Exists reports whether at least one record matches the criteria.
	Exists(ctx context.Context, criteria ...SelectCriteria) (bool, error)

	// Add persists a transient record and returns it with its
	// store-assigned ID.
	Add(ctx context.Context, record T) (T, error)

	// Edit updates an existing record, matched by primary key.
	Edit(ctx context.Context, record T) (T, error)

	// Delete removes an existing record, matched by primary key.
	Delete(ctx context.Context, record T) error
}
