// Package main implements the content service: places, categories,
// images, reviews, and trail status. It holds no signing secret;
// identities are verified against the users service.
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
		log.Fatalf("content service failed: %v", err)
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
	if cfg.Services.UsersURL == "" {
		return fmt.Errorf("users service URL is required")
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

	if err := postgres.MigrateContent(db, appLogger); err != nil {
		return err
	}

	resolver := auth.NewRemoteResolver(cfg.Services.UsersURL, nil)

	handlers := contentHandlers{
		category:    api.NewCategoryHandler(postgres.NewCategoryStore(db, appLogger)),
		place:       api.NewPlaceHandler(db, postgres.NewPlaceStore(db, appLogger)),
		image:       api.NewImageHandler(db, postgres.NewImageStore(db, appLogger)),
		review:      api.NewReviewHandler(postgres.NewReviewStore(db, appLogger)),
		trailStatus: api.NewTrailStatusHandler(postgres.NewTrailStatusStore(db, appLogger)),
	}

	router := newRouter(cfg, handlers, resolver)

	return httpserver.Serve(context.Background(), cfg.Server.Port, router, appLogger)
}

type contentHandlers struct {
	category    *api.CategoryHandler
	place       *api.PlaceHandler
	image       *api.ImageHandler
	review      *api.ReviewHandler
	trailStatus *api.TrailStatusHandler
}

func newRouter(cfg *config.Config, h contentHandlers, resolver auth.IdentityResolver) http.Handler {
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

	// Public reads
	r.Get("/categories", h.category.List)
	r.Get("/categories/slug/{slug}", h.category.GetBySlug)
	r.Get("/categories/{id}", h.category.Get)
	r.Get("/places", h.place.List)
	r.Get("/places/slug/{slug}", h.place.GetBySlug)
	r.Get("/places/{id}", h.place.Get)
	r.Get("/images", h.image.List)
	r.Get("/images/{id}", h.image.Get)
	r.Get("/reviews/place/{id}", h.review.ListByPlace)
	r.Get("/reviews/{id}", h.review.Get)
	r.Get("/trail-status/place/{id}/current", h.trailStatus.GetCurrent)
	r.Get("/trail-status/place/{id}/history", h.trailStatus.History)
	r.Get("/trail-status/{id}", h.trailStatus.Get)

	// Authenticated, any active user
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/reviews", h.review.Create)
		r.Get("/reviews/user/me", h.review.ListMine)
		r.Put("/reviews/{id}", h.review.Update)
		r.Delete("/reviews/{id}", h.review.Delete)

		r.Post("/categories", h.category.Create)
		r.Put("/categories/{id}", h.category.Update)
		r.Delete("/categories/{id}", h.category.Delete)

		r.Post("/places", h.place.Create)
		r.Put("/places/{id}", h.place.Update)
		r.Delete("/places/{id}", h.place.Delete)

		r.Post("/images", h.image.Create)
		r.Put("/images/reorder", h.image.Reorder)
		r.Put("/images/{id}", h.image.Update)
		r.Delete("/images/{id}", h.image.Delete)

		r.Post("/trail-status", h.trailStatus.Create)
		r.Put("/trail-status/{id}", h.trailStatus.Update)
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
