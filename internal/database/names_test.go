package database

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestStore(t *testing.T) *NameStore {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewNameStore(db)
}

func TestAddNameOccurrence(t *testing.T) {
	store := setupTestStore(t)

	if err := store.AddNameOccurrence("alice", 1); err != nil {
		t.Fatalf("AddNameOccurrence failed: %v", err)
	}

	count, err := store.GetNameCount("alice")
	if err != nil {
		t.Fatalf("GetNameCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}

	if err := store.AddNameOccurrence("alice", 2); err != nil {
		t.Fatalf("AddNameOccurrence failed: %v", err)
	}

	count, err = store.GetNameCount("alice")
	if err != nil {
		t.Fatalf("GetNameCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected cumulative count 3, got %d", count)
	}
}

func TestGetNameCountUnknown(t *testing.T) {
	store := setupTestStore(t)

	count, err := store.GetNameCount("nobody")
	if err != nil {
		t.Fatalf("GetNameCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 for an unknown name, got %d", count)
	}
}

func TestGetStatistics(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice", 2)
	store.AddNameOccurrence("bob", 1)
	store.AddNameOccurrence("alice", 1)

	names, occurrences, err := store.GetStatistics()
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if names != 2 {
		t.Errorf("Expected 2 names, got %d", names)
	}
	if occurrences != 4 {
		t.Errorf("Expected 4 occurrences, got %d", occurrences)
	}
}

func TestClearAll(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice", 1)
	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	names, occurrences, err := store.GetStatistics()
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if names != 0 || occurrences != 0 {
		t.Errorf("Expected empty store, got %d names and %d occurrences", names, occurrences)
	}
}

func TestGetAllNamesOrdering(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice", 1)
	store.AddNameOccurrence("bob", 3)
	store.AddNameOccurrence("carol", 2)

	records, err := store.GetAllNames()
	if err != nil {
		t.Fatalf("GetAllNames failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].Name != "bob" {
		t.Errorf("Expected bob first, got %s", records[0].Name)
	}
	if records[0].TotalOccurrences != 3 {
		t.Errorf("Expected 3 occurrences, got %d", records[0].TotalOccurrences)
	}
}

func TestGetDuplicateNames(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice", 3)
	store.AddNameOccurrence("bob", 1)

	records, err := store.GetDuplicateNames(2)
	if err != nil {
		t.Fatalf("GetDuplicateNames failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 duplicate, got %d", len(records))
	}
	if records[0].Name != "alice" {
		t.Errorf("Expected alice, got %s", records[0].Name)
	}
}

func TestSearchNames(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice smith", 1)
	store.AddNameOccurrence("bob smith", 1)
	store.AddNameOccurrence("carol jones", 1)

	records, err := store.SearchNames("smith", 10)
	if err != nil {
		t.Fatalf("SearchNames failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 matches, got %d", len(records))
	}
}

func TestDeleteName(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice", 1)
	store.AddNameOccurrence("bob", 1)

	if err := store.DeleteName("alice"); err != nil {
		t.Fatalf("DeleteName failed: %v", err)
	}

	count, err := store.GetNameCount("alice")
	if err != nil {
		t.Fatalf("GetNameCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected alice gone, got count %d", count)
	}

	if err := store.DeleteName("nobody"); err == nil {
		t.Error("Expected an error deleting an unknown name")
	}
}

func TestExportCSV(t *testing.T) {
	store := setupTestStore(t)

	store.AddNameOccurrence("alice", 2)
	store.AddNameOccurrence("bob", 1)

	var buf bytes.Buffer
	if err := store.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Name,") {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "alice") && !strings.Contains(lines[2], "alice") {
		t.Error("Expected alice in the export")
	}
}

func TestSessionIDStamped(t *testing.T) {
	store := setupTestStore(t)

	if store.SessionID() == "" {
		t.Fatal("Expected a non-empty session ID")
	}

	store.AddNameOccurrence("alice", 1)

	var sessionID string
	err := store.db.Conn().QueryRow(`SELECT session_id FROM occurrences LIMIT 1`).Scan(&sessionID)
	if err != nil {
		t.Fatalf("Failed to read occurrence row: %v", err)
	}
	if sessionID != store.SessionID() {
		t.Errorf("Expected session ID %s on occurrence row, got %s", store.SessionID(), sessionID)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("First migration run failed: %v", err)
	}
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}

	version, err := db.GetVersion()
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}
	if version < 3 {
		t.Errorf("Expected schema version at least 3, got %d", version)
	}
}
