package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
)

func TestUpdateStatusTransitions(t *testing.T) {
	r := New()

	steps := []struct {
		live bool
		want events.Transition
	}{
		{false, events.FirstSeenDark},
		{false, events.NoChange},
		{true, events.WentLive},
		{true, events.NoChange},
		{false, events.WentDark},
		{true, events.WentLive},
	}
	for i, step := range steps {
		got, err := r.UpdateStatus("e1", step.live)
		require.NoError(t, err)
		assert.Equal(t, step.want, got, "step %d", i)
	}
}

func TestUpdateStatusFirstSeenLive(t *testing.T) {
	r := New()

	tr, err := r.UpdateStatus("e1", true)
	require.NoError(t, err)
	assert.Equal(t, events.WentLive, tr)

	state, ok := r.Get("e1")
	require.True(t, ok)
	assert.Equal(t, events.State{EventID: "e1", Live: true}, state)
}

func TestUpdateStatusRejectsEmptyID(t *testing.T) {
	r := New()

	_, err := r.UpdateStatus("", true)
	assert.ErrorIs(t, err, ErrEmptyEventID)
	assert.Zero(t, r.Len())
	assert.Zero(t, r.ActiveCount())
}

func TestGetUnknown(t *testing.T) {
	r := New()
	_, ok := r.Get("missing")
	assert.False(t, ok)
	assert.False(t, r.IsLive("missing"))
}

func TestActiveCountTracksLiveRecords(t *testing.T) {
	r := New()

	for _, id := range []string{"a", "b", "c"} {
		_, err := r.UpdateStatus(id, true)
		require.NoError(t, err)
	}
	_, err := r.UpdateStatus("b", false)
	require.NoError(t, err)
	_, err = r.UpdateStatus("d", false)
	require.NoError(t, err)

	assert.Equal(t, 2, r.ActiveCount())
	assert.Equal(t, 4, r.Len())
}

func TestConcurrentUpdatesKeepCountConsistent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("e%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = r.UpdateStatus(id, j%2 == 0)
			}
		}()
	}
	wg.Wait()

	// each goroutine ends on j=19, which sets not-live
	assert.Zero(t, r.ActiveCount())
	assert.Equal(t, 50, r.Len())
}
