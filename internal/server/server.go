// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the recommender as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/risda/internal/engine"
	"github.com/pdiddy/risda/internal/ingest"
	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/problem"
	"github.com/pdiddy/risda/pkg/types"
)

// OwnerHeader carries the identity of the logged-in user. Authentication
// happens upstream; the server trusts this header.
const OwnerHeader = "X-Risda-User"

// IndexStaleHeader is set on write responses whose change was stored but
// is not yet visible to search.
const IndexStaleHeader = "X-Risda-Index-Stale"

const shutdownTimeout = 10 * time.Second

// Deps are the services the API serves.
type Deps struct {
	Engine   *engine.Engine
	Records  *ingest.Service
	Problems *problem.Service
	// AdminTokenHash is the bcrypt hash guarding the admin routes. Empty
	// disables them.
	AdminTokenHash string
}

// Server routes API requests to the services.
type Server struct {
	deps    Deps
	cfg     types.ServerConfig
	search  types.SearchConfig
	problem types.ProblemConfig
	log     zerolog.Logger
}

// New returns a Server for cfg.
func New(deps Deps, cfg types.Config) *Server {
	return &Server{
		deps:    deps,
		cfg:     cfg.Server,
		search:  cfg.Search,
		problem: cfg.Problem,
		log:     logging.With("server"),
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimit, s.cfg.RateWindow))
		}

		r.Get("/health", s.handleHealth)
		r.Get("/search", s.handleSearch)
		r.Get("/labels", s.handleLabels)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/classify", s.handleClassify)

		r.Group(func(r chi.Router) {
			r.Use(requireOwner)
			r.Post("/problems", s.handleSubmitProblem)
			r.Get("/problems", s.handleListProblems)
			r.Get("/problems/{id}/recommendations", s.handleProblemRecommendations)
			r.Post("/saved", s.handleSave)
			r.Get("/saved", s.handleListSaved)
			r.Get("/dashboard", s.handleDashboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/records", s.handleAddRecord)
			r.Post("/records/upload", s.handleUpload)
			r.Put("/records/{id}", s.handleEditRecord)
			r.Delete("/records/{id}", s.handleDeleteRecord)
			r.Get("/trash", s.handleListTrash)
			r.Post("/trash/{id}/restore", s.handleRestore)
			r.Get("/admin/problems", s.handleListAllProblems)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
