// Package storetest opens throwaway in-memory databases for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/artikelin/api/internal/config"
	"github.com/artikelin/api/internal/store"
)

// New returns a migrated Store backed by a private in-memory sqlite database.
func New(t *testing.T) *store.Store {
	t.Helper()

	db, err := store.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return store.New(db)
}
