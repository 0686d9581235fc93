package database

import (
	"context"
	"os"
	"testing"
)

// TestDatabaseIntegration exercises the full database lifecycle on SQLite
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_integration.db"
	defer os.Remove(dbPath)
	defer os.Remove(dbPath + "-wal")
	defer os.Remove(dbPath + "-shm")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tables := []string{
		"users", "sessions", "campers", "parent_campers",
		"camp_years", "enrollments", "camp_groups", "group_memberships", "group_events",
	}
	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running migrations twice must be a no-op
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

// TestExecReturningID verifies inserted row IDs come back on SQLite
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_returning_id.db"
	defer os.Remove(dbPath)
	defer os.Remove(dbPath + "-wal")
	defer os.Remove(dbPath + "-shm")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	first, err := db.ExecReturningID(
		"INSERT INTO campers (first_name, last_name) VALUES (?, ?)", "Sam", "Rivers")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	if first <= 0 {
		t.Fatalf("ExecReturningID() = %d, want positive id", first)
	}

	second, err := db.ExecReturningID(
		"INSERT INTO campers (first_name, last_name) VALUES (?, ?)", "Alex", "Rivers")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	if second != first+1 {
		t.Errorf("ExecReturningID() = %d, want %d", second, first+1)
	}
}

// TestTransactionRollback verifies a rolled back transaction leaves no rows
func TestTransactionRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_transactions.db"
	defer os.Remove(dbPath)
	defer os.Remove(dbPath + "-wal")
	defer os.Remove(dbPath + "-shm")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	if _, err := tx.ExecReturningID(
		"INSERT INTO campers (first_name, last_name) VALUES (?, ?)", "Robin", "Lake"); err != nil {
		t.Fatalf("insert in transaction failed: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM campers").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 campers after rollback, got %d", count)
	}
}
