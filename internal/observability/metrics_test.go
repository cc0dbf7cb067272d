package observability

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniqueNamespace returns a namespace unique to each test so promauto
// registrations in the default registry never collide across tests.
func uniqueNamespace(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func TestNewMetrics(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_new"))

	require.NotNil(t, m.BuildsStarted)
	require.NotNil(t, m.BuildsCompleted)
	require.NotNil(t, m.BuildsFailed)
	require.NotNil(t, m.BuildDuration)
	require.NotNil(t, m.QueriesTotal)
	require.NotNil(t, m.HTTPRequestsTotal)
}

func TestRecordBuildLifecycle(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_build"))

	m.RecordBuildStarted()
	m.RecordBuildCompleted(1.5, 600, 4000, 12000, 3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuildsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BuildsCompleted))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RecordsSkipped))
	assert.Equal(t, float64(600), testutil.ToFloat64(m.GraphPublications))
	assert.Equal(t, float64(4000), testutil.ToFloat64(m.GraphKeywords))
	assert.Equal(t, float64(12000), testutil.ToFloat64(m.GraphEdges))
}

func TestRecordBuildCompletedReplacesGauges(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_gauges"))

	m.RecordBuildCompleted(1, 10, 20, 30, 0)
	m.RecordBuildCompleted(1, 5, 15, 25, 0)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.GraphPublications), "gauges track the latest snapshot, not a sum")
	assert.Equal(t, float64(15), testutil.ToFloat64(m.GraphKeywords))
	assert.Equal(t, float64(25), testutil.ToFloat64(m.GraphEdges))
}

func TestRecordBuildFailed(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_fail"))

	m.RecordBuildFailed()
	m.RecordBuildFailed()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.BuildsFailed))
}

func TestRecordQuery(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_query"))

	m.RecordQuery("search", 0.002)
	m.RecordQuery("search", 0.004)
	m.RecordQuery("trends", 0.001)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.QueriesTotal.WithLabelValues("search")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesTotal.WithLabelValues("trends")))
}

func TestRecordQueryFailed(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_queryfail"))

	m.RecordQueryFailed("similar", "not_found")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueriesFailed.WithLabelValues("similar", "not_found")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics(uniqueNamespace("pubgraph_http"))

	m.RecordHTTPRequest("/api/v1/graph", "200", 0.01)
	m.RecordHTTPRequest("/api/v1/graph", "200", 0.02)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/v1/graph", "200")))

	// Histogram sample count is visible through the collected metric.
	var metric dto.Metric
	hist, err := m.HTTPRequestDuration.GetMetricWithLabelValues("/api/v1/graph")
	require.NoError(t, err)
	require.NoError(t, hist.(interface{ Write(*dto.Metric) error }).Write(&metric))
	assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())
}
