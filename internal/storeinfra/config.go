// Package storeinfra holds the store-facing infrastructure the public
// packages build on: connection configuration, database handles, driver
// error translation and column naming rules.
package storeinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Driver selects the SQL driver and bun dialect a connection uses.
type Driver string

const (
	// DriverSQLite uses mattn/go-sqlite3. Suited to tests and embedded use.
	DriverSQLite Driver = "sqlite3"

	// DriverPostgres uses lib/pq.
	DriverPostgres Driver = "postgres"
)

// Config holds the configuration for a store connection. The connection is a
// scoped resource: it is opened once, shared by the repositories built on
// it, and released by the owner when the unit of work completes.
type Config struct {
	// Driver selects the SQL driver. Must be one of the Driver constants.
	Driver Driver

	// DSN is the driver-specific data source name.
	DSN string

	// MaxOpenConns caps the number of open connections to the store.
	// Must be greater than 0. Default: 25
	MaxOpenConns int

	// MaxIdleConns caps the number of idle connections kept in the pool.
	// Must be greater than 0. Default: 5
	MaxIdleConns int

	// ConnMaxLifetime bounds how long a single connection may be reused.
	// Zero means connections are reused forever.
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config with sensible defaults: an in-memory SQLite
// store shared across connections, useful out of the box for tests and
// examples.
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "file::memory:?cache=shared",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxIdleConns, validation.Required, validation.Min(1)),
		validation.Field(&c.ConnMaxLifetime, validation.Min(time.Duration(0))),
	)
}
