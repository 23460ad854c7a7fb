package di

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-repository-store/internal/storeinfra"
	"github.com/goliatone/go-repository-store/repository"
)

func TestNewContainer(t *testing.T) {
	config := storeinfra.Config{
		Driver:          storeinfra.DriverSQLite,
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if container == nil {
		t.Fatal("NewContainer() returned nil container")
	}

	// Verify that dependencies are properly initialized
	if container.DB() == nil {
		t.Error("Container should have a non-nil database handle")
	}

	// Verify config is stored correctly
	storedConfig := container.Config()
	if storedConfig.Driver != config.Driver {
		t.Errorf("Expected driver %q, got %q", config.Driver, storedConfig.Driver)
	}

	if storedConfig.DSN != config.DSN {
		t.Errorf("Expected DSN %q, got %q", config.DSN, storedConfig.DSN)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	if container == nil {
		t.Fatal("NewContainerWithDefaults() returned nil container")
	}

	// Verify that default configuration is used
	config := container.Config()
	defaultConfig := storeinfra.DefaultConfig()

	if config.Driver != defaultConfig.Driver {
		t.Errorf("Expected default driver %q, got %q", defaultConfig.Driver, config.Driver)
	}

	if config.DSN != defaultConfig.DSN {
		t.Errorf("Expected default DSN %q, got %q", defaultConfig.DSN, config.DSN)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	invalidConfig := storeinfra.Config{
		Driver: "oracle", // Invalid: unsupported driver
		DSN:    ":memory:",
	}

	_, err := NewContainer(invalidConfig)
	if err == nil {
		t.Error("NewContainer() should fail with invalid config")
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	defer container.Close()

	// Call the getter multiple times to ensure it returns the same handle
	db1 := container.DB()
	db2 := container.DB()

	if db1 != db2 {
		t.Error("DB() should return the same instance (singleton behavior)")
	}
}

func TestContainerClose(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if err := container.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestNewMemoryRepositoryIntegration(t *testing.T) {
	handlers := repository.ModelHandlers[*containerUser]{
		NewRecord: func() *containerUser { return &containerUser{} },
	}

	repo, err := NewMemoryRepository(handlers)
	if err != nil {
		t.Fatalf("NewMemoryRepository() failed: %v", err)
	}

	ctx := context.Background()
	added, err := repo.Add(ctx, &containerUser{Name: "Ada"})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	found, err := repo.GetByID(ctx, added.GetID())
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if found.Name != "Ada" {
		t.Errorf("Expected name %q, got %q", "Ada", found.Name)
	}
}

type containerUser struct {
	ID   int64
	Name string
}

func (u *containerUser) GetID() int64   { return u.ID }
func (u *containerUser) SetID(id int64) { u.ID = id }
