package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected journal_mode wal, got %s", mode)
	}
}

func TestPutGetDelete(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	got, err := db.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing key, got %q", got)
	}

	if err := db.Put(ctx, "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err = db.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Expected [], got %q", got)
	}

	// Overwrite under the same key
	if err := db.Put(ctx, "tasks", []byte(`[1]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, _ = db.Get(ctx, "tasks")
	if string(got) != `[1]` {
		t.Errorf("Expected [1], got %q", got)
	}

	if err := db.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ = db.Get(ctx, "tasks")
	if got != nil {
		t.Errorf("Expected nil after delete, got %q", got)
	}
}
