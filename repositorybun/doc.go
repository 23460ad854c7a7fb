// Package repositorybun provides the SQL-backed implementation of the
// generic repository contract, built on the bun ORM.
//
// # Overview
//
// BunRepository[T] implements repository.Repository[T] by delegating every
// operation to a shared bun.DB as a single atomic statement. The repository
// holds no state beyond the db handle and the model handlers: it mediates
// access to records, it does not own them.
//
// # Basic Usage
//
// Open a connection and build a repository per model:
//
//	db, err := repositorybun.Open(repositorybun.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	repo, err := repositorybun.New(db, repository.ModelHandlers[*User]{
//		NewRecord: func() *User { return &User{} },
//	})
//
//	user, err := repo.Add(ctx, &User{Name: "Ada"})
//	found, err := repo.GetByID(ctx, user.ID)
//
// # Criteria Pushdown
//
// Criteria from the repository package are compiled into the SQL statement
// itself: conditions become parameterized WHERE clauses (column names pass
// through bun.Ident, values through placeholders), ordering becomes ORDER
// BY, paging becomes LIMIT/OFFSET. Filtered reads never materialize the
// unfiltered table in process memory.
//
// # Identity
//
// Add issues one INSERT and returns the record with its store-assigned
// primary key: dialects with RETURNING populate the model directly, the
// rest report the key through LastInsertId. Edit and Delete match on the
// primary key and translate zero affected rows into NotFoundError, leaving
// the store untouched.
//
// # Error Handling
//
// Driver failures are translated into the repository error taxonomy:
// sql.ErrNoRows becomes NotFoundError, constraint violations from lib/pq
// and go-sqlite3 become PersistenceError with the constraint detail, and an
// expired context deadline becomes TimeoutError. The original driver error
// stays reachable through errors.As. No retries happen at this layer.
//
// # See Also
//
// For the contract types and criteria options, see the repository package.
// For an in-memory implementation of the same contract, see repositorymem.
package repositorybun
