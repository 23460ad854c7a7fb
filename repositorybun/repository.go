package repositorybun

import (
	"context"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
	"github.com/goliatone/go-repository-store/repository"
)

// BunRepository is the SQL-backed generic repository. It delegates every
// operation to the underlying bun.DB as a single statement; criteria are
// compiled into the statement so the store does the filtering.
type BunRepository[T repository.Entity] struct {
	db       *bun.DB
	handlers repository.ModelHandlers[T]
	label    string
}

// New creates a BunRepository for the model described by handlers. The db
// handle is shared, not owned: closing it is the caller's responsibility.
func New[T repository.Entity](db *bun.DB, handlers repository.ModelHandlers[T]) (*BunRepository[T], error) {
	if db == nil {
		return nil, fmt.Errorf("bun repository: db is required")
	}
	if err := handlers.Validate(); err != nil {
		return nil, fmt.Errorf("bun repository: %w", err)
	}

	return &BunRepository[T]{
		db:       db,
		handlers: handlers,
		label:    storeinfra.EntityLabel(handlers.NewRecord()),
	}, nil
}

// Handlers returns the model handlers this repository was built with.
func (r *BunRepository[T]) Handlers() repository.ModelHandlers[T] {
	return r.handlers
}

// GetByID returns the record with the given primary key, further constrained
// by any criteria.
func (r *BunRepository[T]) GetByID(ctx context.Context, id int64, criteria ...repository.SelectCriteria) (T, error) {
	var zero T

	// Match on the primary key through the model schema, whatever the
	// column is named.
	record := r.handlers.NewRecord()
	record.SetID(id)
	q := r.db.NewSelect().Model(record).WherePK()
	q, err := applySelect(q, repository.Apply(criteria...))
	if err != nil {
		return zero, storeinfra.Translate("get_by_id", r.label, formatID(id), err)
	}

	if err := q.Limit(1).Scan(ctx); err != nil {
		return zero, storeinfra.Translate("get_by_id", r.label, formatID(id), err)
	}
	return record, nil
}

// GetByIdentifier returns the record with the given natural key. The model
// handlers must configure an identifier field.
func (r *BunRepository[T]) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	var zero T

	if !r.handlers.HasIdentifier() {
		return zero, &repository.PersistenceError{
			Op:  "get_by_identifier",
			Err: fmt.Errorf("%s has no identifier field configured", r.label),
		}
	}

	record := r.handlers.NewRecord()
	q := r.db.NewSelect().Model(record).
		Where("? = ?", bun.Ident(r.handlers.IdentifierField), identifier)
	q, err := applySelect(q, repository.Apply(criteria...))
	if err != nil {
		return zero, storeinfra.Translate("get_by_identifier", r.label, identifier, err)
	}

	if err := q.Limit(1).Scan(ctx); err != nil {
		return zero, storeinfra.Translate("get_by_identifier", r.label, identifier, err)
	}
	return record, nil
}

// Get returns the first record matching the criteria.
func (r *BunRepository[T]) Get(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	var zero T

	record := r.handlers.NewRecord()
	q, err := applySelect(r.db.NewSelect().Model(record), repository.Apply(criteria...))
	if err != nil {
		return zero, storeinfra.Translate("get", r.label, "", err)
	}

	if err := q.Limit(1).Scan(ctx); err != nil {
		return zero, storeinfra.Translate("get", r.label, "", err)
	}
	return record, nil
}

// List returns every record matching the criteria. The result is empty, not
// nil-checked failure, when nothing matches.
func (r *BunRepository[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, error) {
	records := make([]T, 0)
	q, err := applySelect(r.db.NewSelect().Model(&records), repository.Apply(criteria...))
	if err != nil {
		return nil, storeinfra.Translate("list", r.label, "", err)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, storeinfra.Translate("list", r.label, "", err)
	}
	return records, nil
}

// Count returns the number of records matching the criteria. Ordering and
// paging options are ignored.
func (r *BunRepository[T]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	q, err := applyConditions(r.db.NewSelect().Model(r.handlers.NewRecord()), repository.Apply(criteria...))
	if err != nil {
		return 0, storeinfra.Translate("count", r.label, "", err)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, storeinfra.Translate("count", r.label, "", err)
	}
	return count, nil
}

// Exists reports whether at least one record matches the criteria.
func (r *BunRepository[T]) Exists(ctx context.Context, criteria ...repository.SelectCriteria) (bool, error) {
	q, err := applyConditions(r.db.NewSelect().Model(r.handlers.NewRecord()), repository.Apply(criteria...))
	if err != nil {
		return false, storeinfra.Translate("exists", r.label, "", err)
	}

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, storeinfra.Translate("exists", r.label, "", err)
	}
	return exists, nil
}

// Add persists a transient record in a single INSERT and returns it with the
// store-assigned primary key. When identifier handlers are configured and
// the natural key is empty, a UUID is assigned before the write.
func (r *BunRepository[T]) Add(ctx context.Context, record T) (T, error) {
	var zero T

	r.handlers.EnsureIdentifier(record)

	res, err := r.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		return zero, storeinfra.Translate("add", r.label, "", err)
	}

	// Dialects with RETURNING populate the model directly; the rest report
	// the assigned key through LastInsertId.
	if record.GetID() == 0 {
		if id, err := res.LastInsertId(); err == nil && id != 0 {
			record.SetID(id)
		}
	}
	return record, nil
}

// Edit updates an existing record, matched by primary key, in a single
// UPDATE. A record whose key resolves to nothing leaves the store unchanged
// and yields a not-found error.
func (r *BunRepository[T]) Edit(ctx context.Context, record T) (T, error) {
	var zero T

	id := record.GetID()
	if id == 0 {
		return zero, &repository.NotFoundError{Entity: r.label, Key: formatID(id)}
	}

	res, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return zero, storeinfra.Translate("edit", r.label, formatID(id), err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return zero, &repository.NotFoundError{Entity: r.label, Key: formatID(id)}
	}
	return record, nil
}

// Delete removes an existing record, matched by primary key, in a single
// DELETE. Deleting an absent record yields a not-found error.
func (r *BunRepository[T]) Delete(ctx context.Context, record T) error {
	id := record.GetID()
	if id == 0 {
		return &repository.NotFoundError{Entity: r.label, Key: formatID(id)}
	}

	res, err := r.db.NewDelete().Model(record).WherePK().Exec(ctx)
	if err != nil {
		return storeinfra.Translate("delete", r.label, formatID(id), err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &repository.NotFoundError{Entity: r.label, Key: formatID(id)}
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
