package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
)

const (
	minLatency = 100 * time.Millisecond
	maxLatency = 300 * time.Millisecond
	maxGoals   = 5
)

// Provider generates random scores with a simulated upstream latency.
type Provider struct {
	mu    sync.Mutex
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a mock provider seeded from the current time.
func New() *Provider {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed creates a deterministic mock provider; latency is still simulated.
func NewWithSeed(seed int64) *Provider {
	return &Provider{
		rng:   rand.New(rand.NewSource(seed)),
		sleep: sleepContext,
	}
}

// WithoutLatency disables the simulated delay.
func (p *Provider) WithoutLatency() *Provider {
	p.sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

// Score returns a random "home:away" score with each side in [0, 4].
func (p *Provider) Score(eventID string) events.ScoreData {
	p.mu.Lock()
	home, away := p.rng.Intn(maxGoals), p.rng.Intn(maxGoals)
	p.mu.Unlock()
	return events.ScoreData{EventID: eventID, CurrentScore: fmt.Sprintf("%d:%d", home, away)}
}

// Latency returns a random delay in [100ms, 300ms].
func (p *Provider) Latency() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return minLatency + time.Duration(p.rng.Int63n(int64(maxLatency-minLatency)+1))
}

// FetchScore waits for the simulated latency and returns a random score.
func (p *Provider) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	if err := p.sleep(ctx, p.Latency()); err != nil {
		return events.ScoreData{}, err
	}
	return p.Score(eventID), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
