package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/spacebio/publication-graph-service/internal/domain"
	"github.com/spacebio/publication-graph-service/internal/observability"
	"github.com/spacebio/publication-graph-service/internal/query"
)

// getGraph handles GET /api/v1/graph.
func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	nodes, edges, err := s.query.Graph()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graphToResponse(nodes, edges))
}

// search handles GET /api/v1/search?q=&type=&exact=&section=.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	opts := query.SearchOptions{
		Mode:    query.SearchMode(r.URL.Query().Get("type")),
		Section: r.URL.Query().Get("section"),
	}
	if exact := r.URL.Query().Get("exact"); exact != "" {
		parsed, err := strconv.ParseBool(exact)
		if err != nil {
			s.writeDomainError(w, r, domain.NewValidationError("exact", "must be a boolean"))
			return
		}
		opts.Exact = parsed
	}

	result, err := s.query.Search(q, opts)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchToResponse(result))
}

// getSimilarPublications handles GET /api/v1/publications/{pubID}/similar.
func (s *Server) getSimilarPublications(w http.ResponseWriter, r *http.Request) {
	pubID := chi.URLParam(r, "pubID")

	entries, err := s.query.Similar(pubID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, similarToResponse(entries))
}

// getPublicationsByKeyword handles GET /api/v1/keywords/{keyword}/publications.
func (s *Server) getPublicationsByKeyword(w http.ResponseWriter, r *http.Request) {
	keyword := chi.URLParam(r, "keyword")

	pubs, err := s.query.PublicationsByKeyword(keyword)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicationsToResponse(domain.NormalizeKeyword(keyword), pubs))
}

// getClusters handles GET /api/v1/clusters.
func (s *Server) getClusters(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.query.ClusterSummaries()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clustersToResponse(summaries))
}

// getTrends handles GET /api/v1/trends?timeframe=N.
func (s *Server) getTrends(w http.ResponseWriter, r *http.Request) {
	timeframe := s.defaultTimeframe
	if raw := r.URL.Query().Get("timeframe"); raw != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			s.writeDomainError(w, r, domain.NewValidationError("timeframe", "must be an integer"))
			return
		}
		timeframe = parsed
	}

	report, err := s.query.Trends(timeframe)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trendsToResponse(report))
}

// getStats handles GET /api/v1/stats.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.query.Stats()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToResponse(stats))
}

// triggerRebuild handles POST /api/v1/rebuild. The rebuild itself is
// synchronous under the coordinator's build lock; the rate limiter bounds
// how often clients can request one.
func (s *Server) triggerRebuild(w http.ResponseWriter, r *http.Request) {
	if !s.rebuildLimiter.Allow() {
		s.writeDomainError(w, r, domain.ErrRateLimited)
		return
	}

	generation, err := s.coordinator.Rebuild(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, rebuildResponse{
		Status:     "rebuilt",
		Generation: generation.String(),
	})
}

// writeDomainError maps domain errors onto HTTP status codes and writes the
// standard error body.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	correlationID := observability.CorrelationIDFromContext(r.Context())

	status := http.StatusInternalServerError
	code := "internal"
	switch {
	case errors.Is(err, domain.ErrNotReady):
		status = http.StatusServiceUnavailable
		code = "not_ready"
		w.Header().Set("Retry-After", "5")
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		code = "invalid_input"
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
		code = "rate_limited"
	case errors.Is(err, domain.ErrCacheUnavailable):
		status = http.StatusServiceUnavailable
		code = "cache_unavailable"
	}

	if status == http.StatusInternalServerError {
		requestLogger := observability.WithRequestContext(s.logger, correlationID)
		requestLogger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	writeJSON(w, status, errorResponse{
		Error:         err.Error(),
		Code:          code,
		CorrelationID: correlationID,
	})
}
