package poller

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
	"github.com/preston-bernstein/live-event-tracker/internal/providers"
	"github.com/preston-bernstein/live-event-tracker/internal/publisher"
	"github.com/preston-bernstein/live-event-tracker/internal/retry"
)

const (
	defaultInitialDelay = time.Second
	defaultPeriod       = 10 * time.Second
)

// StatusReader reports the current live flag of an event.
type StatusReader interface {
	Get(eventID string) (events.State, bool)
}

// ScoreSink receives every score the broker acknowledged.
type ScoreSink interface {
	Record(msg events.ScoreMessage)
}

// Config controls worker pacing and retry budgets.
type Config struct {
	InitialDelay time.Duration
	Period       time.Duration
	Fetch        retry.Policy
	Publish      retry.Policy
	Topic        string
}

// Deps are the collaborators shared by every worker.
type Deps struct {
	Registry  StatusReader
	Fetcher   providers.ScoreFetcher
	Publisher publisher.Publisher
	Sink      ScoreSink
	Clock     clockwork.Clock
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
}

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Supervisor keeps one poll worker per live event.
type Supervisor struct {
	registry  StatusReader
	fetcher   providers.ScoreFetcher
	publisher publisher.Publisher
	sink      ScoreSink
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *metrics.Recorder
	cfg       Config
	encode    func(any) ([]byte, error)

	mu       sync.Mutex
	active   map[string]*handle
	retiring map[string]*handle
	closed   bool

	wg      sync.WaitGroup
	running atomic.Int32
}

// NewSupervisor constructs a Supervisor with sane defaults. The fetcher is wrapped
// with the configured fetch retry policy.
func NewSupervisor(deps Deps, cfg Config) *Supervisor {
	if cfg.InitialDelay < 0 {
		cfg.InitialDelay = defaultInitialDelay
	}
	if cfg.Period <= 0 {
		cfg.Period = defaultPeriod
	}
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Supervisor{
		registry:  deps.Registry,
		fetcher:   providers.NewRetryingFetcher(deps.Fetcher, cfg.Fetch, clock, deps.Logger),
		publisher: deps.Publisher,
		sink:      deps.Sink,
		clock:     clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		cfg:       cfg,
		encode:    json.Marshal,
		active:    make(map[string]*handle),
		retiring:  make(map[string]*handle),
	}
}

// OnTransition starts or stops the worker for eventID. Callers must deliver the
// transitions of one event in the order the registry produced them.
func (s *Supervisor) OnTransition(eventID string, transition events.Transition) {
	switch transition {
	case events.WentLive:
		s.start(eventID)
	case events.WentDark:
		s.stop(eventID)
	}
}

func (s *Supervisor) start(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		logging.Warn(s.logger, "supervisor closed, poller not started", logging.FieldEventID, eventID)
		return
	}

	prev := s.active[eventID]
	if prev != nil {
		logging.Warn(s.logger, "poller already active, replacing", logging.FieldEventID, eventID)
		prev.cancel()
	} else {
		prev = s.retiring[eventID]
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &handle{cancel: cancel, done: make(chan struct{})}
	s.active[eventID] = h

	w := &worker{
		eventID: eventID,
		sup:     s,
		handle:  h,
		origin:  s.clock.Now().Add(s.cfg.InitialDelay),
	}
	if prev != nil {
		w.after = prev.done
	}

	s.wg.Add(1)
	s.running.Add(1)
	s.metrics.AddActivePollers(1)
	go w.run(ctx)

	logging.Info(s.logger, "poller started",
		logging.FieldEventID, eventID,
		"initial_delay", s.cfg.InitialDelay,
		"period", s.cfg.Period,
	)
}

func (s *Supervisor) stop(eventID string) {
	s.mu.Lock()
	h := s.active[eventID]
	if h != nil {
		delete(s.active, eventID)
		s.retiring[eventID] = h
	}
	s.mu.Unlock()

	if h == nil {
		logging.Debug(s.logger, "no poller to stop", logging.FieldEventID, eventID)
		return
	}
	h.cancel()
	logging.Info(s.logger, "poller stopped", logging.FieldEventID, eventID)
}

// release drops h if it is still the active handle for eventID.
func (s *Supervisor) release(eventID string, h *handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[eventID] == h {
		delete(s.active, eventID)
	}
}

func (s *Supervisor) finished(eventID string, h *handle) {
	s.mu.Lock()
	if s.active[eventID] == h {
		delete(s.active, eventID)
	}
	if s.retiring[eventID] == h {
		delete(s.retiring, eventID)
	}
	s.mu.Unlock()

	h.cancel()
	s.running.Add(-1)
	s.metrics.AddActivePollers(-1)
	close(h.done)
	s.wg.Done()
}

// Has reports whether eventID has an active worker.
func (s *Supervisor) Has(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[eventID]
	return ok
}

// ActiveHandles returns the number of events with an active worker.
func (s *Supervisor) ActiveHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Running returns the number of worker goroutines that have not exited yet,
// including cancelled ones that are still draining.
func (s *Supervisor) Running() int {
	return int(s.running.Load())
}

// Shutdown cancels every worker and waits until they exit or ctx ends.
// No worker is started afterwards.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	handles := make([]*handle, 0, len(s.active)+len(s.retiring))
	for _, h := range s.active {
		handles = append(handles, h)
	}
	for _, h := range s.retiring {
		handles = append(handles, h)
	}
	s.active = make(map[string]*handle)
	s.retiring = make(map[string]*handle)
	s.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info(s.logger, "all pollers stopped", logging.FieldCount, len(handles))
		return nil
	case <-ctx.Done():
		logging.Warn(s.logger, "pollers still draining at shutdown deadline", logging.FieldCount, s.Running())
		return ctx.Err()
	}
}
