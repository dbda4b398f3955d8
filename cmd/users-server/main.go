// Package main implements the users service: account registration,
// login, and account/profile management. It is the only service holding
// the JWT signing secret; every other service defers identity checks to
// it.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"

	"github.com/elchalten/connect-api/internal/api"
	apimiddleware "github.com/elchalten/connect-api/internal/api/middleware"
	"github.com/elchalten/connect-api/internal/config"
	"github.com/elchalten/connect-api/internal/platform/httpserver"
	"github.com/elchalten/connect-api/internal/platform/logger"
	"github.com/elchalten/connect-api/internal/platform/postgres"
	"github.com/elchalten/connect-api/internal/service/auth"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("users service failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	db, err := openDatabase(cfg.Database.URL, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := postgres.MigrateUsers(db, appLogger); err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewUserStore(db, appLogger)
	profileStore := postgres.NewProfileStore(db, appLogger)
	hasher := auth.NewBcryptHasher()
	resolver := auth.NewLocalResolver(jwtService, userStore)

	userHandler := api.NewUserHandler(db, userStore, profileStore, jwtService, hasher, hasher)

	router := newRouter(cfg, userHandler, resolver)

	return httpserver.Serve(context.Background(), cfg.Server.Port, router, appLogger)
}

func newRouter(cfg *config.Config, userHandler *api.UserHandler, resolver auth.IdentityResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	authMiddleware := apimiddleware.NewAuthMiddleware(resolver)

	r.Post("/users", userHandler.Register)
	r.Post("/users/login", userHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(authMiddleware.RequireAdmin).Get("/users", userHandler.List)
		r.Get("/users/me", userHandler.Me)
		r.Get("/users/{id}", userHandler.Get)
		r.Put("/users/{id}", userHandler.Update)
		r.Delete("/users/{id}", userHandler.Delete)
		r.Get("/users/{id}/profile", userHandler.GetProfile)
		r.Put("/users/{id}/profile", userHandler.UpdateProfile)
	})

	r.Get("/health", healthCheck)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("failed to write health check response", "error", err)
	}
}

func openDatabase(url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}
