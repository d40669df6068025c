package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appevents "github.com/preston-bernstein/live-event-tracker/internal/app/events"
	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/http/requestutil"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/registry"
)

const (
	// EventIDParam is the chi URL parameter holding the event identifier.
	EventIDParam = "eventId"

	msgUpdated      = "Event status updated successfully"
	msgRetrieved    = "Event status retrieved successfully"
	msgNotFound     = "Event not found"
	msgUpdateFailed = "Failed to update event status: "

	maxBodyBytes = 1 << 20
)

// EventService is the tracker surface the admin handlers depend on.
type EventService interface {
	UpdateStatus(eventID string, live bool) (events.State, events.Transition, error)
	Status(eventID string) (events.State, bool)
	ActiveCount() int
	ActivePollers() int
	LatestScore(eventID string) (events.ScoreMessage, bool)
	Ready() bool
}

// StatusRequest is the body accepted by POST /events/status.
type StatusRequest struct {
	EventID string `json:"eventId"`
	Live    *bool  `json:"live"`
}

// StatusResponse is returned by the status endpoints.
type StatusResponse struct {
	EventID string `json:"eventId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler wires HTTP routes to the tracker service.
type Handler struct {
	svc    EventService
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc EventService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Ready() {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ready",
		"activePollers": h.svc.ActivePollers(),
	}, h.logger)
}

// UpdateStatus applies a live/not-live toggle for one event.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)

	var req StatusRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		logging.Warn(logger, "invalid status request body", "err", err)
		writeJSON(w, http.StatusBadRequest, StatusResponse{
			Status:  events.StatusError,
			Message: "invalid request body",
		}, logger)
		return
	}
	if req.EventID == "" {
		writeJSON(w, http.StatusBadRequest, StatusResponse{
			Status:  events.StatusError,
			Message: "eventId is required",
		}, logger)
		return
	}
	if req.Live == nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{
			EventID: req.EventID,
			Status:  events.StatusError,
			Message: "live is required",
		}, logger)
		return
	}

	state, transition, err := h.svc.UpdateStatus(req.EventID, *req.Live)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, registry.ErrEmptyEventID):
			status = http.StatusBadRequest
		case errors.Is(err, appevents.ErrShuttingDown):
		default:
			logging.Error(logger, "event status update failed", err, logging.FieldEventID, req.EventID)
		}
		writeJSON(w, status, StatusResponse{
			EventID: req.EventID,
			Status:  events.StatusError,
			Message: fmt.Sprintf("%s%v", msgUpdateFailed, err),
		}, logger)
		return
	}

	logging.Debug(logger, "event status request applied",
		logging.FieldEventID, state.EventID,
		logging.FieldTransition, transition.String(),
	)
	writeJSON(w, http.StatusOK, StatusResponse{
		EventID: state.EventID,
		Status:  state.Label(),
		Message: msgUpdated,
	}, logger)
}

// GetStatus returns the stored state of one event.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := requestutil.PathID(chi.URLParam(r, EventIDParam))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid event id", h.logger)
		return
	}
	state, found := h.svc.Status(eventID)
	if !found {
		writeJSON(w, http.StatusNotFound, StatusResponse{
			EventID: eventID,
			Status:  events.StatusUnknown,
			Message: msgNotFound,
		}, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		EventID: state.EventID,
		Status:  state.Label(),
		Message: msgRetrieved,
	}, h.logger)
}

// ActiveCount returns the number of live events as a bare integer.
func (h *Handler) ActiveCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ActiveCount(), h.logger)
}

// LatestScore returns the last acknowledged score for one event.
func (h *Handler) LatestScore(w http.ResponseWriter, r *http.Request) {
	eventID, ok := requestutil.PathID(chi.URLParam(r, EventIDParam))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid event id", h.logger)
		return
	}
	msg, found := h.svc.LatestScore(eventID)
	if !found {
		writeError(w, r, http.StatusNotFound, "no score published", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, msg, h.logger)
}
