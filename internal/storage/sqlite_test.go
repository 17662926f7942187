package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/conchis/internal/llm"
	"github.com/Veraticus/conchis/internal/prompts"
)

var (
	_ prompts.Store  = (*SQLiteStorage)(nil)
	_ llm.StateStore = (*SQLiteStorage)(nil)
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "a", "b", "conchis.db")
		store, err := NewSQLiteStorage(dbPath)
		if err != nil {
			t.Fatalf("NewSQLiteStorage() error = %v", err)
		}
		defer func() { _ = store.Close() }()

		if store.Path() != dbPath {
			t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
		}
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteStorage() error = %v", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Migrate(context.Background()); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := NewSQLiteStorage("  "); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	lib, err := prompts.OpenLibrary(ctx, store)
	if err != nil {
		t.Fatalf("OpenLibrary() error = %v", err)
	}
	if err := lib.Add(ctx, "Summarize the clipboard.", []string{"summary"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen storage: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() on reopen error = %v", err)
	}

	lib, err = prompts.OpenLibrary(ctx, reopened)
	if err != nil {
		t.Fatalf("OpenLibrary() error = %v", err)
	}
	if lib.Len() != 1 || lib.All()[0].Text != "Summarize the clipboard." {
		t.Errorf("reopened library = %+v", lib.All())
	}
}
