// Package repository defines the generic repository contract shared by every
// storage backend in this module.
//
// # Overview
//
// This package exports three building blocks:
//
//   - Entity: the capability a persisted record must provide (a store-owned ID)
//   - Repository[T]: the collection-like operation set over a persistent store
//   - SelectCriteria: composable, store-agnostic read constraints
//
// Concrete implementations live in sibling packages: repositorybun executes
// operations against a SQL database through bun, repositorymem keeps records
// in process memory. Both compile the same Criteria value, so callers can
// swap backends without touching call sites.
//
// # Basic Usage
//
// Declare a model, wire its handlers, and pick a backend:
//
//	type User struct {
//		bun.BaseModel `bun:"table:users"`
//
//		ID    int64  `bun:"id,pk,autoincrement"`
//		Email string `bun:"email"`
//		Name  string `bun:"name"`
//	}
//
//	func (u *User) GetID() int64      { return u.ID }
//	func (u *User) SetID(id int64)    { u.ID = id }
//
//	handlers := repository.ModelHandlers[*User]{
//		NewRecord: func() *User { return &User{} },
//	}
//
//	repo, err := repositorybun.New(db, handlers)
//	user, err := repo.Add(ctx, &User{Name: "Ada"})
//	same, err := repo.GetByID(ctx, user.ID)
//
// # Criteria
//
// Read operations accept variadic SelectCriteria options. Options build a
// single Criteria value that the backend pushes down to the store:
//
//	active, err := repo.List(ctx,
//		repository.WhereEq("status", "active"),
//		repository.OrderBy("name"),
//		repository.Limit(20),
//	)
//
// Conditions combine with AND. Stores that can express the constraint
// natively (SQL) never materialize unfiltered result sets; the in-memory
// backend evaluates the same conditions record by record.
//
// # Identity
//
// A record's ID is zero while transient and is assigned by the store during
// Add. Edit and Delete match on the assigned ID and fail with NotFoundError
// when it does not resolve. Models may additionally carry a natural key
// (configured through ModelHandlers identifier hooks); Add assigns a UUID
// when the natural key is empty.
//
// # Error Handling
//
// Operations return three error kinds, all matchable with errors.As or the
// IsNotFound/IsPersistence/IsTimeout helpers:
//
//   - NotFoundError: an identifier did not resolve to a persisted record
//   - PersistenceError: the store rejected the operation (constraint
//     violation, connectivity failure); the driver error is wrapped
//   - TimeoutError: the operation's context deadline expired
//
// The repository is a thin pass-through, not a resilience layer: it performs
// no retries and no local recovery.
package repository
