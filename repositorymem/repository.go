// Package repositorymem provides a concurrent in-memory implementation of
// the generic repository contract.
//
// It serves two roles: the lightweight backend for tests and examples, and
// the fallback strategy for stores that cannot push predicates down, since
// criteria are evaluated here record by record. Records are kept in a
// sharded concurrent map; identifiers come from an atomic sequence, so
// concurrent Adds never collide.
package repositorymem

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
	"github.com/goliatone/go-repository-store/repository"
)

// Config holds the configuration for an in-memory repository.
type Config struct {
	// MaxRecords caps how many records the store holds. Zero means
	// unbounded. Add fails with a PersistenceError once the cap is reached.
	MaxRecords int
}

// DefaultConfig returns a Config with sensible defaults: an unbounded store.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxRecords, validation.Min(0)),
	)
}

// MemoryRepository implements repository.Repository[T] against process
// memory. Every operation is atomic at the level of a single record map
// entry; there is no multi-operation coordination, matching the contract.
type MemoryRepository[T repository.Entity] struct {
	config   Config
	handlers repository.ModelHandlers[T]
	label    string

	records      *xsync.MapOf[int64, T]
	byIdentifier *xsync.MapOf[string, int64]
	seq          atomic.Int64
	match        *matcher
}

// New creates a MemoryRepository for the model described by handlers.
func New[T repository.Entity](cfg Config, handlers repository.ModelHandlers[T]) (*MemoryRepository[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("memory repository: %w", err)
	}
	if err := handlers.Validate(); err != nil {
		return nil, fmt.Errorf("memory repository: %w", err)
	}

	record := handlers.NewRecord()
	return &MemoryRepository[T]{
		config:       cfg,
		handlers:     handlers,
		label:        storeinfra.EntityLabel(record),
		records:      xsync.NewMapOf[int64, T](),
		byIdentifier: xsync.NewMapOf[string, int64](),
		match:        newMatcher(reflect.TypeOf(record)),
	}, nil
}

// Handlers returns the model handlers this repository was built with.
func (r *MemoryRepository[T]) Handlers() repository.ModelHandlers[T] {
	return r.handlers
}

// Len returns the number of records currently held.
func (r *MemoryRepository[T]) Len() int {
	return r.records.Size()
}

// GetByID returns the record with the given primary key, further constrained
// by any criteria.
func (r *MemoryRepository[T]) GetByID(ctx context.Context, id int64, criteria ...repository.SelectCriteria) (T, error) {
	var zero T
	if err := r.ctxErr(ctx, "get_by_id"); err != nil {
		return zero, err
	}

	record, ok := r.records.Load(id)
	if !ok {
		return zero, r.notFound(id)
	}

	crit := repository.Apply(criteria...)
	matched, err := r.match.matches(record, crit.Conditions)
	if err != nil {
		return zero, &repository.PersistenceError{Op: "get_by_id", Err: err}
	}
	if !matched {
		return zero, r.notFound(id)
	}
	return record, nil
}

// GetByIdentifier returns the record with the given natural key.
func (r *MemoryRepository[T]) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	var zero T
	if err := r.ctxErr(ctx, "get_by_identifier"); err != nil {
		return zero, err
	}

	if !r.handlers.HasIdentifier() {
		return zero, &repository.PersistenceError{
			Op:  "get_by_identifier",
			Err: fmt.Errorf("%s has no identifier field configured", r.label),
		}
	}

	id, ok := r.byIdentifier.Load(identifier)
	if !ok {
		return zero, &repository.NotFoundError{Entity: r.label, Key: identifier}
	}
	record, err := r.GetByID(ctx, id, criteria...)
	if repository.IsNotFound(err) {
		return zero, &repository.NotFoundError{Entity: r.label, Key: identifier}
	}
	return record, err
}

// Get returns the first record matching the criteria.
func (r *MemoryRepository[T]) Get(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	var zero T

	// Copy before appending so the caller's slice is never written to.
	opts := make([]repository.SelectCriteria, 0, len(criteria)+1)
	opts = append(opts, criteria...)
	opts = append(opts, repository.Limit(1))

	records, err := r.List(ctx, opts...)
	if err != nil {
		return zero, err
	}
	if len(records) == 0 {
		return zero, &repository.NotFoundError{Entity: r.label}
	}
	return records[0], nil
}

// List returns every record matching the criteria. Without an explicit
// ordering the store default applies: ascending primary key.
func (r *MemoryRepository[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, error) {
	if err := r.ctxErr(ctx, "list"); err != nil {
		return nil, err
	}

	crit := repository.Apply(criteria...)
	if err := r.match.checkOrder(crit.Order); err != nil {
		return nil, &repository.PersistenceError{Op: "list", Err: err}
	}

	records, err := r.collect(crit.Conditions)
	if err != nil {
		return nil, &repository.PersistenceError{Op: "list", Err: err}
	}

	r.sortRecords(records, crit.Order)

	if crit.Offset != nil {
		if *crit.Offset >= len(records) {
			records = records[:0]
		} else {
			records = records[*crit.Offset:]
		}
	}
	if crit.Limit != nil && *crit.Limit < len(records) {
		records = records[:*crit.Limit]
	}
	return records, nil
}

// Count returns the number of records matching the criteria. Ordering and
// paging options are ignored.
func (r *MemoryRepository[T]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	if err := r.ctxErr(ctx, "count"); err != nil {
		return 0, err
	}

	crit := repository.Apply(criteria...)
	records, err := r.collect(crit.Conditions)
	if err != nil {
		return 0, &repository.PersistenceError{Op: "count", Err: err}
	}
	return len(records), nil
}

// Exists reports whether at least one record matches the criteria.
func (r *MemoryRepository[T]) Exists(ctx context.Context, criteria ...repository.SelectCriteria) (bool, error) {
	count, err := r.Count(ctx, criteria...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Add persists a transient record and returns it with its assigned primary
// key. Records arriving with an explicit key keep it, mirroring SQL inserts
// with an explicit primary key; the sequence advances past it.
func (r *MemoryRepository[T]) Add(ctx context.Context, record T) (T, error) {
	var zero T
	if err := r.ctxErr(ctx, "add"); err != nil {
		return zero, err
	}

	if r.config.MaxRecords > 0 && r.records.Size() >= r.config.MaxRecords {
		return zero, &repository.PersistenceError{
			Op:         "add",
			Constraint: "max_records",
			Err:        fmt.Errorf("store limit of %d records reached", r.config.MaxRecords),
		}
	}

	r.handlers.EnsureIdentifier(record)
	if r.handlers.HasIdentifier() {
		identifier := r.handlers.GetIdentifier(record)
		if existing, ok := r.byIdentifier.Load(identifier); ok && existing != record.GetID() {
			return zero, &repository.PersistenceError{
				Op:         "add",
				Constraint: r.handlers.IdentifierField,
				Err:        fmt.Errorf("duplicate identifier %q", identifier),
			}
		}
	}

	id := record.GetID()
	if id == 0 {
		id = r.seq.Add(1)
		record.SetID(id)
	} else {
		r.advanceSeq(id)
	}

	if _, loaded := r.records.LoadOrStore(id, record); loaded {
		return zero, &repository.PersistenceError{
			Op:         "add",
			Constraint: "id",
			Err:        fmt.Errorf("duplicate id %d", id),
		}
	}
	if r.handlers.HasIdentifier() {
		r.byIdentifier.Store(r.handlers.GetIdentifier(record), id)
	}
	return record, nil
}

// Edit updates an existing record, matched by primary key. A missing key
// leaves the store unchanged.
func (r *MemoryRepository[T]) Edit(ctx context.Context, record T) (T, error) {
	var zero T
	if err := r.ctxErr(ctx, "edit"); err != nil {
		return zero, err
	}

	id := record.GetID()
	if id == 0 {
		return zero, r.notFound(id)
	}
	previous, ok := r.records.Load(id)
	if !ok {
		return zero, r.notFound(id)
	}

	if r.handlers.HasIdentifier() {
		identifier := r.handlers.GetIdentifier(record)
		if mapped, ok := r.byIdentifier.Load(identifier); ok && mapped != id {
			return zero, &repository.PersistenceError{
				Op:         "edit",
				Constraint: r.handlers.IdentifierField,
				Err:        fmt.Errorf("duplicate identifier %q", identifier),
			}
		}
		if old := r.handlers.GetIdentifier(previous); old != "" && old != identifier {
			r.byIdentifier.Delete(old)
		}
		r.byIdentifier.Store(identifier, id)
	}

	r.records.Store(id, record)
	return record, nil
}

// Delete removes an existing record, matched by primary key. Deleting an
// absent record yields a not-found error.
func (r *MemoryRepository[T]) Delete(ctx context.Context, record T) error {
	if err := r.ctxErr(ctx, "delete"); err != nil {
		return err
	}

	id := record.GetID()
	if id == 0 {
		return r.notFound(id)
	}
	previous, ok := r.records.LoadAndDelete(id)
	if !ok {
		return r.notFound(id)
	}

	if r.handlers.HasIdentifier() {
		identifier := r.handlers.GetIdentifier(previous)
		if mapped, ok := r.byIdentifier.Load(identifier); ok && mapped == id {
			r.byIdentifier.Delete(identifier)
		}
	}
	return nil
}

// collect gathers every record matching the conditions, in map order.
func (r *MemoryRepository[T]) collect(conds []repository.Condition) ([]T, error) {
	var records []T
	var matchErr error

	r.records.Range(func(_ int64, record T) bool {
		matched, err := r.match.matches(record, conds)
		if err != nil {
			matchErr = err
			return false
		}
		if matched {
			records = append(records, record)
		}
		return true
	})

	if matchErr != nil {
		return nil, matchErr
	}
	return records, nil
}

func (r *MemoryRepository[T]) sortRecords(records []T, order []repository.Ordering) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range order {
			c := r.match.compareColumns(records[i], records[j], o.Field)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return records[i].GetID() < records[j].GetID()
	})
}

// advanceSeq moves the sequence past an explicitly provided key so later
// store-assigned keys never collide with it.
func (r *MemoryRepository[T]) advanceSeq(id int64) {
	for {
		current := r.seq.Load()
		if id <= current || r.seq.CompareAndSwap(current, id) {
			return
		}
	}
}

func (r *MemoryRepository[T]) notFound(id int64) error {
	return &repository.NotFoundError{Entity: r.label, Key: strconv.FormatInt(id, 10)}
}

// ctxErr honors context deadlines and cancellation on what would otherwise
// be instant operations, so both backends share timeout semantics.
func (r *MemoryRepository[T]) ctxErr(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return storeinfra.Translate(op, r.label, "", err)
	}
	return nil
}
