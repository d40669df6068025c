package registry

import (
	"errors"
	"sync"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
)

// ErrEmptyEventID is returned when an update names no event.
var ErrEmptyEventID = errors.New("event id must not be empty")

// Registry keeps a thread-safe map of event live flags.
// Records are created on first update and never removed.
type Registry struct {
	mu     sync.RWMutex
	states map[string]bool
	active int
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		states: make(map[string]bool),
	}
}

// UpdateStatus stores the live flag for eventID and reports the resulting transition.
func (r *Registry) UpdateStatus(eventID string, live bool) (events.Transition, error) {
	if eventID == "" {
		return events.NoChange, ErrEmptyEventID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, known := r.states[eventID]
	switch {
	case !known && !live:
		r.states[eventID] = false
		return events.FirstSeenDark, nil
	case known && prev == live:
		return events.NoChange, nil
	}

	r.states[eventID] = live
	if live {
		r.active++
		return events.WentLive, nil
	}
	r.active--
	return events.WentDark, nil
}

// Get returns the stored state for eventID.
func (r *Registry) Get(eventID string) (events.State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	live, ok := r.states[eventID]
	if !ok {
		return events.State{}, false
	}
	return events.State{EventID: eventID, Live: live}, true
}

// IsLive reports whether eventID is known and live.
func (r *Registry) IsLive(eventID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[eventID]
}

// ActiveCount returns the number of live events.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Len returns the number of known events.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}
