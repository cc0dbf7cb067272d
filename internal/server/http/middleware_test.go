package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacebio/publication-graph-service/internal/observability"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Run("propagates client id", func(t *testing.T) {
		var seen string
		h := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = observability.CorrelationIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "client-supplied")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "client-supplied", seen)
		assert.Equal(t, "client-supplied", rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("generates id when absent", func(t *testing.T) {
		var seen string
		h := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = observability.CorrelationIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Correlation-ID"))
	})
}

func TestJSONContentTypeMiddleware(t *testing.T) {
	h := jsonContentTypeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestErrorResponseCarriesCorrelationID(t *testing.T) {
	ts := newTestServer(t, &memStore{records: testRecords()}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/publications/missing/similar", nil)
	req.Header.Set("X-Correlation-ID", "trace-me")
	rec := httptest.NewRecorder()
	ts.server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "trace-me", body.CorrelationID)
}
