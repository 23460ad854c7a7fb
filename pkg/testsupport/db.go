package testsupport

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
)

// NewSQLiteDB opens a private in-memory SQLite database wrapped in bun.
// The handle is closed automatically when the test finishes.
func NewSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := storeinfra.Open(storeinfra.Config{
		Driver:       storeinfra.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close sqlite test db: %v", err)
		}
	})

	return db
}

// CreateTable creates the table for the given bun model, failing the test on
// error. Pass a typed nil pointer, e.g. CreateTable(t, db, (*User)(nil)).
func CreateTable(t *testing.T, db *bun.DB, model any) {
	t.Helper()

	if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("failed to create table for %T: %v", model, err)
	}
}
