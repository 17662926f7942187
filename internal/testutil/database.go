// Package testutil provides test helpers backed by a real in-memory SQLite
// database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/conchis/internal/model"
	"github.com/Veraticus/conchis/internal/storage"
)

// TestDB represents a migrated test database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Usage          *model.UsageSnapshot
	Prompts        []model.PromptEntry
	SkipMigrations bool
}

// SetupTestDB creates a new in-memory test database, migrates it, and seeds
// the given prompts. Cleanup is registered on t.
func SetupTestDB(t *testing.T, prompts ...model.PromptEntry) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Prompts: prompts})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
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

	if len(opts.Prompts) > 0 {
		if err := store.ReplacePrompts(ctx, opts.Prompts); err != nil {
			t.Fatalf("failed to seed prompts: %v", err)
		}
	}

	if opts.Usage != nil {
		if err := store.SaveUsage(ctx, *opts.Usage); err != nil {
			t.Fatalf("failed to seed usage: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustLoadPrompts returns the stored prompts or fails the test.
func (db *TestDB) MustLoadPrompts() []model.PromptEntry {
	db.t.Helper()
	entries, err := db.Storage.LoadPrompts(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load prompts: %v", err)
	}
	return entries
}

// MustLoadUsage returns the stored usage snapshot, nil if none, or fails the
// test.
func (db *TestDB) MustLoadUsage() *model.UsageSnapshot {
	db.t.Helper()
	snapshot, err := db.Storage.LoadUsage(context.Background())
	if err != nil {
		db.t.Fatalf("failed to load usage: %v", err)
	}
	return snapshot
}
