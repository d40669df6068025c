package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainevents "github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
	"github.com/preston-bernstein/live-event-tracker/internal/poller"
	"github.com/preston-bernstein/live-event-tracker/internal/registry"
	"github.com/preston-bernstein/live-event-tracker/internal/retry"
	"github.com/preston-bernstein/live-event-tracker/internal/store"
	"github.com/preston-bernstein/live-event-tracker/internal/teststubs"
	"github.com/preston-bernstein/live-event-tracker/internal/testutil"
)

type recordingSupervisor struct {
	mu          sync.Mutex
	transitions []domainevents.Transition
	shutdowns   int
}

func (r *recordingSupervisor) OnTransition(_ string, tr domainevents.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, tr)
}

func (r *recordingSupervisor) ActiveHandles() int { return 0 }

func (r *recordingSupervisor) Shutdown(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdowns++
	return nil
}

func newRealService(t *testing.T) (*Service, *poller.Supervisor, *teststubs.StubPublisher) {
	t.Helper()
	reg := registry.New()
	pub := &teststubs.StubPublisher{}
	scores := store.NewScoreStore(time.Minute)
	sup := poller.NewSupervisor(poller.Deps{
		Registry:  reg,
		Fetcher:   &teststubs.StubFetcher{Score: "1:0"},
		Publisher: pub,
		Sink:      scores,
		Clock:     testutil.NewFakeClock(),
	}, poller.Config{
		InitialDelay: time.Second,
		Period:       10 * time.Second,
		Fetch:        retry.Policy{MaxAttempts: 3, Initial: time.Second},
		Publish:      retry.Policy{MaxAttempts: 3, Initial: 500 * time.Millisecond},
	})
	svc := NewService(reg, sup, scores, nil, metrics.NewRecorder())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc, sup, pub
}

func TestUpdateStatusForwardsTransitions(t *testing.T) {
	sup := &recordingSupervisor{}
	rec := metrics.NewRecorder()
	svc := NewService(registry.New(), sup, nil, nil, rec)

	for _, live := range []bool{false, true, true, false} {
		_, _, err := svc.UpdateStatus("e1", live)
		require.NoError(t, err)
	}

	assert.Equal(t, []domainevents.Transition{
		domainevents.FirstSeenDark,
		domainevents.WentLive,
		domainevents.NoChange,
		domainevents.WentDark,
	}, sup.transitions)
	assert.Equal(t, 1, rec.Snapshot().Transitions["went_live"])
}

func TestUpdateStatusRejectsEmptyID(t *testing.T) {
	sup := &recordingSupervisor{}
	svc := NewService(registry.New(), sup, nil, nil, nil)

	_, _, err := svc.UpdateStatus("", true)
	assert.ErrorIs(t, err, registry.ErrEmptyEventID)
	assert.Empty(t, sup.transitions)
}

func TestStatusAndActiveCount(t *testing.T) {
	svc := NewService(registry.New(), &recordingSupervisor{}, nil, nil, nil)

	_, ok := svc.Status("e1")
	assert.False(t, ok)

	state, tr, err := svc.UpdateStatus("e1", true)
	require.NoError(t, err)
	assert.Equal(t, domainevents.WentLive, tr)
	assert.True(t, state.Live)
	_, _, err = svc.UpdateStatus("e2", true)
	require.NoError(t, err)
	_, _, err = svc.UpdateStatus("e3", false)
	require.NoError(t, err)

	got, ok := svc.Status("e1")
	require.True(t, ok)
	assert.Equal(t, "live", got.Label())
	assert.Equal(t, 2, svc.ActiveCount())
}

func TestShutdownRejectsUpdates(t *testing.T) {
	sup := &recordingSupervisor{}
	svc := NewService(registry.New(), sup, nil, nil, nil)
	assert.True(t, svc.Ready())

	require.NoError(t, svc.Shutdown(context.Background()))
	assert.False(t, svc.Ready())
	assert.Equal(t, 1, sup.shutdowns)

	_, _, err := svc.UpdateStatus("e1", true)
	assert.ErrorIs(t, err, ErrShuttingDown)
}

func TestLatestScoreWithoutStore(t *testing.T) {
	svc := NewService(registry.New(), &recordingSupervisor{}, nil, nil, nil)
	_, ok := svc.LatestScore("e1")
	assert.False(t, ok)
}

func TestDuplicateLiveKeepsSingleWorker(t *testing.T) {
	svc, sup, _ := newRealService(t)

	_, _, err := svc.UpdateStatus("e1", true)
	require.NoError(t, err)
	_, tr, err := svc.UpdateStatus("e1", true)
	require.NoError(t, err)

	assert.Equal(t, domainevents.NoChange, tr)
	assert.Equal(t, 1, sup.ActiveHandles())
	assert.Equal(t, 1, sup.Running())
	assert.Equal(t, 1, svc.ActivePollers())
}

func TestConcurrentTogglesConverge(t *testing.T) {
	svc, sup, _ := newRealService(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _, _ = svc.UpdateStatus("e1", (i+g)%2 == 0)
			}
		}(g)
	}
	wg.Wait()

	for _, final := range []bool{true, false} {
		_, _, err := svc.UpdateStatus("e1", final)
		require.NoError(t, err)
		assert.Equal(t, final, sup.Has("e1"))
		want := 0
		if final {
			want = 1
		}
		require.Eventually(t, func() bool { return sup.Running() == want }, 5*time.Second, time.Millisecond)
	}
}

func TestActiveCountMatchesWorkers(t *testing.T) {
	svc, sup, _ := newRealService(t)

	for i := 0; i < 10; i++ {
		_, _, err := svc.UpdateStatus(fmt.Sprintf("e%d", i), true)
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, _, err := svc.UpdateStatus(fmt.Sprintf("e%d", i), false)
		require.NoError(t, err)
	}

	assert.Equal(t, 6, svc.ActiveCount())
	assert.Equal(t, 6, sup.ActiveHandles())
	require.Eventually(t, func() bool { return sup.Running() == 6 }, 5*time.Second, time.Millisecond)
}

func TestShutdownStopsWorkers(t *testing.T) {
	svc, sup, _ := newRealService(t)
	for i := 0; i < 3; i++ {
		_, _, err := svc.UpdateStatus(fmt.Sprintf("e%d", i), true)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	assert.Zero(t, sup.Running())
	assert.Zero(t, sup.ActiveHandles())
}
