package repository

import (
	"os"
	"testing"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := t.Name() + ".db"
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestDeleteExpiredSessions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	repo := NewUserRepository(newTestDB(t))

	user, err := repo.CreateUser("ana@example.com", "hash", "Ana Silva", models.RoleParent)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := repo.CreateSession("stale-token", user.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession(stale) error = %v", err)
	}
	if _, err := repo.CreateSession("live-token", user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession(live) error = %v", err)
	}

	n, err := repo.DeleteExpiredSessions()
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	stale, err := repo.GetSession("stale-token")
	if err != nil {
		t.Fatalf("GetSession(stale) error = %v", err)
	}
	if stale != nil {
		t.Error("expired session should be gone")
	}

	live, err := repo.GetSession("live-token")
	if err != nil {
		t.Fatalf("GetSession(live) error = %v", err)
	}
	if live == nil {
		t.Error("live session should survive cleanup")
	}
}
