package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/publisher"
)

// StubFetcher is a test double for providers.ScoreFetcher.
type StubFetcher struct {
	// Fn computes the response for the n-th call (1-based). When nil, Score and Err are returned.
	Fn     func(ctx context.Context, eventID string, call int) (events.ScoreData, error)
	Score  string
	Err    error
	Calls  atomic.Int32
	Notify chan string
}

// FetchScore returns the configured response while tracking calls.
func (s *StubFetcher) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	call := int(s.Calls.Add(1))
	if s.Notify != nil {
		select {
		case s.Notify <- eventID:
		default:
		}
	}
	if s.Fn != nil {
		return s.Fn(ctx, eventID, call)
	}
	if s.Err != nil {
		return events.ScoreData{}, s.Err
	}
	return events.ScoreData{EventID: eventID, CurrentScore: s.Score}, nil
}

// PublishedMessage is one handoff seen by StubPublisher.
type PublishedMessage struct {
	Key     string
	Payload []byte
}

// StubPublisher is a test double for publisher.Publisher.
type StubPublisher struct {
	// AckFn decides the outcome of the n-th handoff (1-based). When nil every message is acknowledged.
	AckFn func(n int, msg PublishedMessage) error
	// Hold leaves acks unsettled until Settle is called.
	Hold   bool
	Notify chan PublishedMessage

	mu       sync.Mutex
	messages []PublishedMessage
	pending  []chan error
	closed   bool
}

// Publish records the message and settles its ack according to the stub configuration.
func (s *StubPublisher) Publish(ctx context.Context, key string, payload []byte) publisher.Ack {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return publisher.Resolved(publisher.ErrPublisherClosed)
	}
	msg := PublishedMessage{Key: key, Payload: append([]byte(nil), payload...)}
	s.messages = append(s.messages, msg)
	n := len(s.messages)
	ack := make(chan error, 1)
	if s.Hold {
		s.pending = append(s.pending, ack)
	}
	s.mu.Unlock()

	if !s.Hold {
		var err error
		if s.AckFn != nil {
			err = s.AckFn(n, msg)
		}
		ack <- err
	}
	if s.Notify != nil {
		select {
		case s.Notify <- msg:
		default:
		}
	}
	return ack
}

// Settle resolves the i-th held ack (0-based) with err.
func (s *StubPublisher) Settle(i int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[i] <- err
}

// Messages returns a copy of every handoff in order.
func (s *StubPublisher) Messages() []PublishedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PublishedMessage(nil), s.messages...)
}

// Count returns the number of handoffs.
func (s *StubPublisher) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Close rejects further messages.
func (s *StubPublisher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *StubPublisher) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
