package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the publication graph service.
// Metrics are organized by subsystem: document loading, graph builds,
// queries, and HTTP traffic. All collectors are registered via promauto for
// automatic registration with the default Prometheus registry.
type Metrics struct {
	// BuildsStarted counts graph builds initiated.
	BuildsStarted prometheus.Counter

	// BuildsCompleted counts graph builds that published a snapshot.
	BuildsCompleted prometheus.Counter

	// BuildsFailed counts graph builds that failed before publishing.
	BuildsFailed prometheus.Counter

	// BuildDuration observes end-to-end build duration in seconds.
	BuildDuration prometheus.Histogram

	// RecordsSkipped counts records dropped across all build passes.
	RecordsSkipped prometheus.Counter

	// GraphPublications tracks the publication count of the current snapshot.
	GraphPublications prometheus.Gauge

	// GraphKeywords tracks the distinct keyword count of the current snapshot.
	GraphKeywords prometheus.Gauge

	// GraphEdges tracks the edge count of the current snapshot.
	GraphEdges prometheus.Gauge

	// QueriesTotal counts query operations by operation name.
	QueriesTotal *prometheus.CounterVec

	// QueriesFailed counts failed query operations by operation and error kind.
	QueriesFailed *prometheus.CounterVec

	// QueryDuration observes query duration in seconds by operation.
	QueryDuration *prometheus.HistogramVec

	// HTTPRequestsTotal counts HTTP requests by route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request duration in seconds by route.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Builds
		BuildsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_started_total",
			Help:      "Total number of graph builds started",
		}),
		BuildsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_completed_total",
			Help:      "Total number of graph builds that published a snapshot",
		}),
		BuildsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_failed_total",
			Help:      "Total number of graph builds that failed",
		}),
		BuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of graph builds in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		RecordsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Total number of cached records skipped during builds",
		}),

		// Graph
		GraphPublications: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_publications",
			Help:      "Publication node count of the current snapshot",
		}),
		GraphKeywords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_keywords",
			Help:      "Distinct keyword count of the current snapshot",
		}),
		GraphEdges: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edge count of the current snapshot",
		}),

		// Queries
		QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of query operations by operation",
		}, []string{"operation"}),
		QueriesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_failed_total",
			Help:      "Total number of failed query operations by operation",
		}, []string{"operation", "error"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of query operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		// HTTP
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds by route",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"route"}),
	}
}

// RecordBuildStarted records that a graph build has started.
func (m *Metrics) RecordBuildStarted() {
	m.BuildsStarted.Inc()
}

// RecordBuildCompleted records a published snapshot and updates the graph gauges.
func (m *Metrics) RecordBuildCompleted(durationSeconds float64, publications, keywords, edges, skipped int) {
	m.BuildsCompleted.Inc()
	m.BuildDuration.Observe(durationSeconds)
	m.RecordsSkipped.Add(float64(skipped))
	m.GraphPublications.Set(float64(publications))
	m.GraphKeywords.Set(float64(keywords))
	m.GraphEdges.Set(float64(edges))
}

// RecordBuildFailed records that a graph build has failed.
func (m *Metrics) RecordBuildFailed() {
	m.BuildsFailed.Inc()
}

// RecordQuery records a query operation.
func (m *Metrics) RecordQuery(operation string, durationSeconds float64) {
	m.QueriesTotal.WithLabelValues(operation).Inc()
	m.QueryDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordQueryFailed records a failed query operation.
func (m *Metrics) RecordQueryFailed(operation, errorKind string) {
	m.QueriesFailed.WithLabelValues(operation, errorKind).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}
