// Package observability provides logging and metrics support for the
// publication graph service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for builds, queries, and HTTP traffic
//   - Context helpers for propagating the request correlation ID
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("snapshot_id", snapID).Msg("graph built")
//
// Add request context to a logger:
//
//	logger = observability.WithRequestContext(logger, correlationID)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("publication_graph")
//
// Record metrics:
//
//	metrics.RecordBuildStarted()
//	metrics.RecordQuery("search", elapsed.Seconds())
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - correlation_id: Request correlation identifier
//   - snapshot_id: Graph snapshot generation identifier
//   - record_id: Cached publication record identifier
//   - operation: Query operation name
//   - query: User's search query
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
