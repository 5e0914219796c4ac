// Copyright (c) 2026 ScholarLink. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hbadaoui/scholarlink/internal/apikey"
	"github.com/hbadaoui/scholarlink/internal/orcid"
	"github.com/hbadaoui/scholarlink/internal/platform/config"
	"github.com/hbadaoui/scholarlink/internal/platform/constants"
	"github.com/hbadaoui/scholarlink/internal/platform/middleware"
	"github.com/hbadaoui/scholarlink/internal/researcher"
	"github.com/hbadaoui/scholarlink/internal/similarity"
	"github.com/hbadaoui/scholarlink/internal/tablesource"
	"github.com/hbadaoui/scholarlink/internal/task"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Orcid handles identity resolution, profiles, and CSV export.
	Orcid *orcid.Handler

	// Researcher handles persistence of confirmed researchers.
	Researcher *researcher.Handler

	// APIKey handles LLM credential storage and rotation.
	APIKey *apikey.Handler

	// TableSource lists the connected source databases.
	TableSource *tablesource.Handler

	// Similarity proxies the external project similarity service.
	Similarity *similarity.Handler

	// Task exposes the background task registry.
	Task *task.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/orcid", h.Orcid.RegisterRoutes)
		api.Route("/researchers", h.Researcher.RegisterRoutes)
		api.Route("/api-keys", h.APIKey.RegisterRoutes)
		api.Route("/databases", h.TableSource.RegisterRoutes)
		api.Route("/similarity", h.Similarity.RegisterRoutes)
		api.Route("/tasks", h.Task.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
