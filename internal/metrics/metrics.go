package metrics

import (
	"sync"
	"time"
)

type callStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics and mirrors them to OpenTelemetry when configured.
type Recorder struct {
	mu          sync.Mutex
	fetches     map[string]*callStats
	publishes   map[string]*callStats
	cycles      map[string]int
	transitions map[string]int
	requests    map[string]int
	rateLimited int
	active      int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		fetches:     make(map[string]*callStats),
		publishes:   make(map[string]*callStats),
		cycles:      make(map[string]int),
		transitions: make(map[string]int),
		requests:    make(map[string]int),
		otel:        otel,
	}
}

// RecordFetchAttempt counts one upstream fetch attempt for source.
func (r *Recorder) RecordFetchAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	record(r.fetches, source, duration, err)
	r.mu.Unlock()
	r.otel.recordFetch(source, duration, err)
}

// RecordRateLimitWait tracks a fetch that had to wait for the upstream quota.
func (r *Recorder) RecordRateLimitWait(source string, waited time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.rateLimited++
	r.mu.Unlock()
	r.otel.recordRateLimit(source, waited)
}

// RecordPublishAttempt counts one publish attempt and its acknowledgement outcome.
func (r *Recorder) RecordPublishAttempt(topic string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	record(r.publishes, topic, duration, err)
	r.mu.Unlock()
	r.otel.recordPublish(topic, duration, err)
}

// RecordPollerCycle tracks one worker cycle by outcome.
func (r *Recorder) RecordPollerCycle(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cycles[outcome]++
	r.mu.Unlock()
	r.otel.recordPoller(outcome, duration)
}

// RecordTransition counts registry transitions by name.
func (r *Recorder) RecordTransition(transition string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.transitions[transition]++
	r.mu.Unlock()
	r.otel.recordTransition(transition)
}

// AddActivePollers moves the running worker gauge by delta.
func (r *Recorder) AddActivePollers(delta int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.active += delta
	r.mu.Unlock()
	r.otel.recordActive(delta)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.requests[method+" "+path]++
	r.mu.Unlock()
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a point-in-time copy of the in-memory counters.
type Snapshot struct {
	FetchCalls     int
	FetchErrors    int
	PublishCalls   int
	PublishErrors  int
	RateLimitWaits int
	ActivePollers  int
	Cycles         map[string]int
	Transitions    map[string]int
	// Requests is keyed by "METHOD route".
	Requests map[string]int
}

// Snapshot aggregates counters across sources and topics.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		RateLimitWaits: r.rateLimited,
		ActivePollers:  r.active,
		Cycles:         make(map[string]int, len(r.cycles)),
		Transitions:    make(map[string]int, len(r.transitions)),
		Requests:       make(map[string]int, len(r.requests)),
	}
	for _, s := range r.fetches {
		snap.FetchCalls += s.calls
		snap.FetchErrors += s.errors
	}
	for _, s := range r.publishes {
		snap.PublishCalls += s.calls
		snap.PublishErrors += s.errors
	}
	for k, v := range r.cycles {
		snap.Cycles[k] = v
	}
	for k, v := range r.transitions {
		snap.Transitions[k] = v
	}
	for k, v := range r.requests {
		snap.Requests[k] = v
	}
	return snap
}

// LastFetchLatency returns the last recorded latency for source.
func (r *Recorder) LastFetchLatency(source string) time.Duration {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.fetches[source]; ok {
		return s.lastLatency
	}
	return 0
}

func record(m map[string]*callStats, key string, duration time.Duration, err error) {
	stats, ok := m[key]
	if !ok {
		stats = &callStats{}
		m[key] = stats
	}
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
}
