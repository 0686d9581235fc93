package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camphq/internal/config"
	"camphq/internal/database"
	"camphq/internal/handlers"
	"camphq/internal/metrics"
	"camphq/internal/models"
	"camphq/internal/repository"
	"camphq/internal/security"
	"camphq/internal/service"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "reason", err)
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	camperRepo := repository.NewCamperRepository(db)
	campYearRepo := repository.NewCampYearRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg)
	if err != nil {
		slog.Error("failed to initialize email service", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	camperService := service.NewCamperService(camperRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, campYearRepo, camperRepo, emailService)
	groupService := service.NewGroupService(groupRepo, camperRepo, campYearRepo, enrollmentService)
	eventService := service.NewEventService(eventRepo, groupRepo, camperRepo, campYearRepo)

	if err := seed(cfg, userRepo, campYearRepo); err != nil {
		slog.Error("failed to seed initial data", "error", err)
		os.Exit(1)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Handlers
	rateLimiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, oauthProviders, cfg.OAuthRedirectBaseURL)
	parentHandler := handlers.NewParentHandler(camperService, enrollmentService, eventService)
	adminHandler := handlers.NewAdminHandler(authService, camperService, enrollmentService, groupService, eventService)
	healthHandler := handlers.NewHealthHandler(db)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthz", healthHandler.Healthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register-parent", middleware.RateLimit(authHandler.RegisterParent))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /api/auth/oauth/providers", authHandler.ListOAuthProviders)
	mux.HandleFunc("GET /api/auth/oauth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /api/auth/oauth/{provider}/callback", authHandler.OAuthCallback)

	mux.HandleFunc("POST /api/parent/campers", middleware.RequireAuth(parentHandler.AddCamper))
	mux.HandleFunc("GET /api/parent/campers", middleware.RequireAuth(parentHandler.ListCampers))
	mux.HandleFunc("POST /api/parent/enrollments", middleware.RequireAuth(parentHandler.Enroll))
	mux.HandleFunc("GET /api/parent/enrollments", middleware.RequireAuth(parentHandler.ListEnrollments))
	mux.HandleFunc("PUT /api/parent/enrollments/{id}", middleware.RequireAuth(parentHandler.UpdateEnrollment))
	mux.HandleFunc("GET /api/parent/schedule", middleware.RequireAuth(parentHandler.Schedule))

	mux.HandleFunc("POST /api/admin/parents", middleware.RequireAdmin(adminHandler.CreateParent))
	mux.HandleFunc("GET /api/admin/parents", middleware.RequireAdmin(adminHandler.ListParents))
	mux.HandleFunc("POST /api/admin/campers", middleware.RequireAdmin(adminHandler.CreateCamper))
	mux.HandleFunc("GET /api/admin/campers", middleware.RequireAdmin(adminHandler.ListCampers))
	mux.HandleFunc("POST /api/admin/groups", middleware.RequireAdmin(adminHandler.CreateGroup))
	mux.HandleFunc("GET /api/admin/groups", middleware.RequireAdmin(adminHandler.ListGroups))
	mux.HandleFunc("POST /api/admin/groups/{id}/members", middleware.RequireAdmin(adminHandler.AddGroupMember))
	mux.HandleFunc("POST /api/admin/events", middleware.RequireAdmin(adminHandler.CreateEvent))
	mux.HandleFunc("GET /api/admin/events", middleware.RequireAdmin(adminHandler.ListEvents))
	mux.HandleFunc("GET /api/admin/enrollments", middleware.RequireAdmin(adminHandler.ListEnrollments))
	mux.HandleFunc("PUT /api/admin/enrollments/{id}", middleware.RequireAdmin(adminHandler.DecideEnrollment))

	handler := handlers.Logging(metrics.Middleware(mux))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background session cleanup
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go cleanupSessions(cleanupCtx, authService)

	go func() {
		slog.Info("server listening", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	cancelCleanup()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// seed makes sure a fresh deployment has a working admin login and a
// camp year open for enrollment. Both are no-ops once the rows exist.
func seed(cfg *config.Config, userRepo *repository.UserRepository, campYearRepo *repository.CampYearRepository) error {
	admin, err := userRepo.GetUserByEmail(cfg.SeedAdminEmail)
	if err != nil {
		return fmt.Errorf("failed to look up seed admin: %w", err)
	}
	if admin == nil {
		hash, err := security.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash seed admin password: %w", err)
		}
		if _, err := userRepo.CreateUser(cfg.SeedAdminEmail, hash, cfg.SeedAdminName, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to create seed admin: %w", err)
		}
		slog.Info("seeded admin account", "email", cfg.SeedAdminEmail)
	}

	year, err := campYearRepo.GetByYear(cfg.SeedCampYear)
	if err != nil {
		return fmt.Errorf("failed to look up seed camp year: %w", err)
	}
	if year == nil {
		if _, err := campYearRepo.CreateCampYear(cfg.SeedCampYear, true); err != nil {
			return fmt.Errorf("failed to create seed camp year: %w", err)
		}
		slog.Info("seeded camp year", "year", cfg.SeedCampYear)
	}

	return nil
}

// cleanupSessions deletes expired sessions once an hour
func cleanupSessions(ctx context.Context, authService *service.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.CleanupExpiredSessions()
			if err != nil {
				slog.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				metrics.RecordSessionsCleaned(int(n))
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}
