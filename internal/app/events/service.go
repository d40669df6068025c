package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	domainevents "github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
)

const lockStripes = 64

// ErrShuttingDown is returned for status updates received after Shutdown.
var ErrShuttingDown = errors.New("service is shutting down")

// Registry stores event live flags.
type Registry interface {
	UpdateStatus(eventID string, live bool) (domainevents.Transition, error)
	Get(eventID string) (domainevents.State, bool)
	ActiveCount() int
}

// Supervisor reacts to registry transitions.
type Supervisor interface {
	OnTransition(eventID string, transition domainevents.Transition)
	ActiveHandles() int
	Shutdown(ctx context.Context) error
}

// ScoreReader exposes the last acknowledged score per event.
type ScoreReader interface {
	Latest(eventID string) (domainevents.ScoreMessage, bool)
}

// Service coordinates event status operations. Updates for the same event are
// applied to the registry and the supervisor as one step.
type Service struct {
	registry   Registry
	supervisor Supervisor
	scores     ScoreReader
	logger     *slog.Logger
	metrics    *metrics.Recorder

	locks  [lockStripes]sync.Mutex
	closed atomic.Bool
}

// NewService constructs a Service.
func NewService(registry Registry, supervisor Supervisor, scores ScoreReader, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		registry:   registry,
		supervisor: supervisor,
		scores:     scores,
		logger:     logger,
		metrics:    recorder,
	}
}

// UpdateStatus records the live flag and starts or stops polling accordingly.
func (s *Service) UpdateStatus(eventID string, live bool) (domainevents.State, domainevents.Transition, error) {
	if s.closed.Load() {
		return domainevents.State{}, domainevents.NoChange, ErrShuttingDown
	}

	mu := s.lockFor(eventID)
	mu.Lock()
	defer mu.Unlock()

	transition, err := s.registry.UpdateStatus(eventID, live)
	if err != nil {
		return domainevents.State{}, domainevents.NoChange, err
	}
	s.supervisor.OnTransition(eventID, transition)
	s.metrics.RecordTransition(transition.String())

	if transition.Changed() {
		logging.Info(s.logger, "event status changed",
			logging.FieldEventID, eventID,
			logging.FieldTransition, transition.String(),
		)
	}
	return domainevents.State{EventID: eventID, Live: live}, transition, nil
}

// Status returns the stored state for eventID.
func (s *Service) Status(eventID string) (domainevents.State, bool) {
	return s.registry.Get(eventID)
}

// ActiveCount returns the number of live events.
func (s *Service) ActiveCount() int {
	return s.registry.ActiveCount()
}

// ActivePollers returns the number of events with a running worker.
func (s *Service) ActivePollers() int {
	return s.supervisor.ActiveHandles()
}

// LatestScore returns the last acknowledged score for eventID.
func (s *Service) LatestScore(eventID string) (domainevents.ScoreMessage, bool) {
	if s.scores == nil {
		return domainevents.ScoreMessage{}, false
	}
	return s.scores.Latest(eventID)
}

// Ready reports whether the service still accepts updates.
func (s *Service) Ready() bool {
	return !s.closed.Load()
}

// Shutdown rejects further updates and stops every worker, waiting up to ctx.
func (s *Service) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	return s.supervisor.Shutdown(ctx)
}

func (s *Service) lockFor(eventID string) *sync.Mutex {
	return &s.locks[xxhash.Sum64String(eventID)%lockStripes]
}
