// ABOUTME: Tests for SQLite storage implementation
// ABOUTME: Covers repository methods with a real database

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// testDB creates a temporary database for testing.
func testDB(t *testing.T) *SQLiteDB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNewSQLiteDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewSQLiteDB_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "nested", "path")
	dbPath := filepath.Join(nestedDir, "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedDir); os.IsNotExist(err) {
		t.Error("nested directory was not created")
	}
}

func TestNewSQLiteDB_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create db: %v", err)
	}
	a := sampleAnnotation(t, "persisted")
	if err := db.CreateAnnotation(a); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = db.Close()

	db, err = NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer db.Close()

	got, err := db.GetAnnotationByName("persisted")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tiers) != 2 {
		t.Errorf("got %d tiers after reopen, want 2", len(got.Tiers))
	}
}

func TestSQLiteDB_Repository(t *testing.T) {
	runRepositoryTests(t, func(t *testing.T) Repository { return testDB(t) })
}
