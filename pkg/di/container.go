package di

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
	"github.com/goliatone/go-repository-store/repository"
	"github.com/goliatone/go-repository-store/repositorybun"
	"github.com/goliatone/go-repository-store/repositorymem"
)

// Container provides dependency injection for store related components.
// It owns the shared database handle for the lifetime of a unit of work and
// provides factory methods for building repositories on top of it.
type Container struct {
	db     *bun.DB
	config storeinfra.Config
}

// NewContainer creates a new DI container with the provided store
// configuration. It opens the database connection eagerly so configuration
// problems surface at wiring time, not on the first operation.
func NewContainer(config storeinfra.Config) (*Container, error) {
	db, err := storeinfra.Open(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		db:     db,
		config: config,
	}, nil
}

// NewContainerWithDefaults creates a new DI container using default
// configuration: an in-memory SQLite store. This is a convenience
// constructor for tests and examples where custom configuration is not
// required.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(storeinfra.DefaultConfig())
}

// DB returns the shared database handle.
// This allows access to the underlying store for schema setup and advanced use cases.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Config returns a copy of the store configuration used by this container.
// This is useful for debugging and monitoring purposes.
func (c *Container) Config() storeinfra.Config {
	return c.config
}

// Close releases the store connection. It must be called on every exit path
// once the unit of work completes; repositories built from this container
// are unusable afterwards.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NewRepository creates a SQL-backed repository for the given model on the
// container's shared connection.
//
// Since Go methods cannot have type parameters, this is provided as a
// package-level function. Example: NewRepository[*User](container, handlers)
func NewRepository[T repository.Entity](container *Container, handlers repository.ModelHandlers[T]) (*repositorybun.BunRepository[T], error) {
	return repositorybun.New(container.db, handlers)
}

// NewMemoryRepository creates an in-memory repository for the given model.
// It shares nothing with the container's database; use it for tests or as a
// predicate-evaluation fallback.
func NewMemoryRepository[T repository.Entity](handlers repository.ModelHandlers[T]) (*repositorymem.MemoryRepository[T], error) {
	return repositorymem.New(repositorymem.DefaultConfig(), handlers)
}
