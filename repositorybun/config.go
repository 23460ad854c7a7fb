package repositorybun

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
)

// Driver selects the SQL driver and bun dialect a connection uses.
type Driver = storeinfra.Driver

const (
	// DriverSQLite connects through mattn/go-sqlite3.
	DriverSQLite = storeinfra.DriverSQLite

	// DriverPostgres connects through lib/pq.
	DriverPostgres = storeinfra.DriverPostgres
)

// Config exposes store connection options for consumers of this package.
type Config struct {
	Driver          Driver
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(storeinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// Open opens the store connection described by the configuration and wraps
// it in a bun.DB ready to back repositories. The caller owns the handle and
// must Close it when done.
func Open(cfg Config) (*bun.DB, error) {
	return storeinfra.Open(cfg.toInternal())
}

func (c Config) toInternal() storeinfra.Config {
	return storeinfra.Config{
		Driver:          c.Driver,
		DSN:             c.DSN,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

func convertFromInternal(cfg storeinfra.Config) Config {
	return Config{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}
