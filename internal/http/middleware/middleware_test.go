package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
	"github.com/preston-bernstein/live-event-tracker/internal/testutil"
)

func TestLoggingMiddlewareSetsRequestIDAndRecordsMetrics(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()

	router := chi.NewRouter()
	router.Use(Logging(logger, rec))
	router.Get("/events/{eventId}/status", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
		assert.NotNil(t, logging.FromContext(r.Context(), nil))
		w.WriteHeader(http.StatusTeapot)
	})

	rr := testutil.Serve(router, http.MethodGet, "/events/e1/status", nil)

	testutil.AssertStatus(t, rr, http.StatusTeapot)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, 1, rec.Snapshot().Requests["GET /events/{eventId}/status"])
	assert.Contains(t, buf.String(), "request complete")
	assert.Contains(t, buf.String(), "status_code=418")
}

func TestLoggingMiddlewareKeepsValidIncomingRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, nil, next), req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestLoggingMiddlewareReplacesInvalidRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not valid!")
	testutil.ServeRequest(LoggingMiddleware(nil, nil, next), req)

	require.NotEmpty(t, seen)
	assert.NotEqual(t, "not valid!", seen)
}

func TestLoggingMiddlewareLabelsUnmatchedRoutes(t *testing.T) {
	rec := metrics.NewRecorder()
	router := chi.NewRouter()
	router.Use(Logging(nil, rec))
	router.Get("/health", func(http.ResponseWriter, *http.Request) {})

	rr := testutil.Serve(router, http.MethodGet, "/nope", nil)

	testutil.AssertStatus(t, rr, http.StatusNotFound)
	assert.Equal(t, 1, rec.Snapshot().Requests["GET unmatched"])
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rr, status: http.StatusOK}
	_, _ = ww.Write([]byte("ok"))
	ww.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusOK, ww.status)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, "id", RequestIDFromContext(withRequestID(context.Background(), "id")))
}
