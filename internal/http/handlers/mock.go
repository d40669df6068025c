package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/http/requestutil"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
)

// ScoreSource produces scores for the mock upstream endpoint.
type ScoreSource interface {
	FetchScore(ctx context.Context, eventID string) (events.ScoreData, error)
}

// MockHandler serves generated scores in the upstream wire format.
type MockHandler struct {
	source ScoreSource
	logger *slog.Logger
}

// NewMockHandler constructs a MockHandler.
func NewMockHandler(source ScoreSource, logger *slog.Logger) *MockHandler {
	return &MockHandler{source: source, logger: logger}
}

// Score answers GET /mock-api/events/{eventId}/score.
func (m *MockHandler) Score(w http.ResponseWriter, r *http.Request) {
	eventID, ok := requestutil.PathID(chi.URLParam(r, EventIDParam))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid event id", m.logger)
		return
	}
	data, err := m.source.FetchScore(r.Context(), eventID)
	if err != nil {
		logging.Debug(loggerFromContext(r, m.logger), "mock score aborted", logging.FieldEventID, eventID, "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "score unavailable", m.logger)
		return
	}
	writeJSON(w, http.StatusOK, data, m.logger)
}
