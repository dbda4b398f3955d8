// Package main implements the API gateway, the single public entry
// point of the platform. It relays requests to the users and content
// services and owns the edge concerns: CORS, trace IDs, and mapping
// unreachable backends to 503.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	apimiddleware "github.com/elchalten/connect-api/internal/api/middleware"
	"github.com/elchalten/connect-api/internal/config"
	"github.com/elchalten/connect-api/internal/gateway"
	"github.com/elchalten/connect-api/internal/platform/httpserver"
	"github.com/elchalten/connect-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("gateway failed: %v", err)
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

	if cfg.Services.UsersURL == "" || cfg.Services.ContentURL == "" {
		return fmt.Errorf("users and content service URLs are required")
	}

	relay, err := gateway.NewRelay(cfg.Services.UsersURL, cfg.Services.ContentURL, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create relay: %w", err)
	}

	router := newRouter(cfg, relay)

	return httpserver.Serve(context.Background(), cfg.Server.Port, router, appLogger)
}

func newRouter(cfg *config.Config, relay *gateway.Relay) http.Handler {
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

	relay.Routes(r)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
