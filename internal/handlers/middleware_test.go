package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
	"camphq/internal/repository"
	"camphq/internal/security"
	"camphq/internal/service"
)

func newAuthMiddleware(t *testing.T) (*Middleware, *service.AuthService, *repository.UserRepository) {
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

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, time.Hour)
	m := NewMiddleware(authService, security.NewRateLimiter(10, time.Minute))
	return m, authService, userRepo
}

func TestRequireAdminBlocksParents(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	m, auth, userRepo := newAuthMiddleware(t)

	if _, err := auth.RegisterParent("lee@example.com", "password123", "Lee Park"); err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}
	parentSession, _, err := auth.Login("lee@example.com", "password123")
	if err != nil {
		t.Fatalf("Login(parent) error = %v", err)
	}

	hash, err := security.HashPassword("admin1234")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if _, err := userRepo.CreateUser("boss@example.com", hash, "Site Admin", models.RoleAdmin); err != nil {
		t.Fatalf("CreateUser(admin) error = %v", err)
	}
	adminSession, _, err := auth.Login("boss@example.com", "admin1234")
	if err != nil {
		t.Fatalf("Login(admin) error = %v", err)
	}

	handler := m.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "missing token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "parent token", token: parentSession.Token, wantStatus: http.StatusForbidden},
		{name: "admin token", token: adminSession.Token, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/admin/campers", nil)
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			recorder := httptest.NewRecorder()
			handler(recorder, r)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}
