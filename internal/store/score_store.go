package store

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
)

// DefaultTTL bounds how long an acknowledged score stays visible.
const DefaultTTL = 5 * time.Minute

// ScoreStore keeps the last acknowledged score per event in a TTL cache.
type ScoreStore struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, events.ScoreMessage]
}

// NewScoreStore constructs an empty store whose entries expire after ttl.
func NewScoreStore(ttl time.Duration) *ScoreStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ScoreStore{
		cache: ttlcache.New[string, events.ScoreMessage](
			ttlcache.WithTTL[string, events.ScoreMessage](ttl),
			ttlcache.WithDisableTouchOnHit[string, events.ScoreMessage](),
		),
	}
}

// Record stores msg unless a newer score for the same event is already present.
func (s *ScoreStore) Record(msg events.ScoreMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.cache.Get(msg.EventID); item != nil && item.Value().Timestamp.After(msg.Timestamp) {
		return
	}
	s.cache.Set(msg.EventID, msg, ttlcache.DefaultTTL)
}

// Latest returns the last recorded score for eventID.
func (s *ScoreStore) Latest(eventID string) (events.ScoreMessage, bool) {
	item := s.cache.Get(eventID)
	if item == nil {
		return events.ScoreMessage{}, false
	}
	return item.Value(), true
}

// Len returns the number of cached events.
func (s *ScoreStore) Len() int {
	return s.cache.Len()
}

// Start runs the expiry loop until Stop is called.
func (s *ScoreStore) Start() {
	s.cache.Start()
}

// Stop ends the expiry loop.
func (s *ScoreStore) Stop() {
	s.cache.Stop()
}
