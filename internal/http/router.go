package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/live-event-tracker/internal/http/handlers"
	"github.com/preston-bernstein/live-event-tracker/internal/http/middleware"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
)

// NewRouter registers the admin routes, plus the mock upstream when mock is non-nil.
func NewRouter(handler *handlers.Handler, mock *handlers.MockHandler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging(logger, recorder))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/events", func(r chi.Router) {
		r.Post("/status", handler.UpdateStatus)
		r.Get("/active-count", handler.ActiveCount)
		r.Get("/{"+handlers.EventIDParam+"}/status", handler.GetStatus)
		r.Get("/{"+handlers.EventIDParam+"}/score", handler.LatestScore)
	})

	if mock != nil {
		r.Get("/mock-api/events/{"+handlers.EventIDParam+"}/score", mock.Score)
	}
	return r
}
