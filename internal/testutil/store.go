// Package testutil provides test helpers for setting up stores, creating
// fixtures, and making assertions.
package testutil

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"walletwiz/internal/store"
)

// SetupTestStore creates an empty in-memory store.
func SetupTestStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	return store.NewMemoryStore()
}

// SetupSQLiteStore creates an in-memory SQLite store with the kv schema
// migrated, for tests exercising the real persistence path.
func SetupSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	// A named in-memory database keeps GORM's connection pool on one
	// database while isolating tests from each other.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", nextID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&store.KVEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return store.NewSQLiteStoreWithDB(db)
}

// TeardownSQLiteStore closes the underlying database connection.
func TeardownSQLiteStore(t *testing.T, s *store.SQLiteStore) {
	t.Helper()

	if err := s.Close(); err != nil {
		t.Errorf("failed to close test store: %v", err)
	}
}
