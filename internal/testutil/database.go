// Package testutil provides shared fixtures for tests that need a real
// gradebook database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/khru/internal/storage"
)

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Seed           map[string]any
	SkipMigrations bool
}

// SetupTestDB creates a migrated SQLite database in a temporary directory.
// A file is used rather than :memory: so checkpoints and reopen tests work.
// The database is closed when the test ends.
//
// Example:
//
//	store := testutil.SetupTestDB(t)
//	w, err := workspace.Open(ctx, store, engine.New())
func SetupTestDB(t testing.TB) *storage.SQLiteStorage {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options. Seed
// values are written as documents under their keys after migration.
func SetupTestDBWithOptions(t testing.TB, opts TestDBOptions) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "khru.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for key, value := range opts.Seed {
		if err := store.Set(ctx, key, value); err != nil {
			t.Fatalf("failed to seed %q: %v", key, err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}
	return store
}
