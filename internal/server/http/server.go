// Package httpserver provides the HTTP REST API server for the publication
// graph service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spacebio/publication-graph-service/internal/graph"
	"github.com/spacebio/publication-graph-service/internal/observability"
	"github.com/spacebio/publication-graph-service/internal/query"
)

// Server is the HTTP REST API server.
type Server struct {
	router         chi.Router
	httpServer     *http.Server
	query          *query.Engine
	coordinator    *graph.Coordinator
	rebuildLimiter *rate.Limiter
	metrics        *observability.Metrics
	logger         zerolog.Logger

	defaultTimeframe int
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// RebuildRatePerMinute and RebuildBurst bound how often clients can
	// trigger rebuilds.
	RebuildRatePerMinute int
	RebuildBurst         int

	// DefaultTimeframeYears is used when a trends request omits timeframe.
	DefaultTimeframeYears int
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(
	cfg Config,
	queryEngine *query.Engine,
	coordinator *graph.Coordinator,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Server {
	perMinute := cfg.RebuildRatePerMinute
	if perMinute < 1 {
		perMinute = 2
	}
	burst := cfg.RebuildBurst
	if burst < 1 {
		burst = 1
	}

	s := &Server{
		query:            queryEngine,
		coordinator:      coordinator,
		rebuildLimiter:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
		metrics:          metrics,
		logger:           logger.With().Str("component", "http-server").Logger(),
		defaultTimeframe: cfg.DefaultTimeframeYears,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.requestMetricsMiddleware)

	// Health endpoints
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Get("/graph", s.getGraph)
		r.Get("/search", s.search)
		r.Get("/publications/{pubID}/similar", s.getSimilarPublications)
		r.Get("/keywords/{keyword}/publications", s.getPublicationsByKeyword)
		r.Get("/clusters", s.getClusters)
		r.Get("/trends", s.getTrends)
		r.Get("/stats", s.getStats)
		r.Post("/rebuild", s.triggerRebuild)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readinessHandler reports readiness. The service is not ready until the
// first graph build has been published.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if !s.coordinator.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"graph":  "no snapshot built yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"graph":  "available",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}
