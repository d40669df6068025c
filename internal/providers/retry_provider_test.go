package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/retry"
	"github.com/preston-bernstein/live-event-tracker/internal/teststubs"
	"github.com/preston-bernstein/live-event-tracker/internal/testutil"
)

func flakey(failures int) *teststubs.StubFetcher {
	return &teststubs.StubFetcher{Fn: func(_ context.Context, id string, call int) (events.ScoreData, error) {
		if call <= failures {
			return events.ScoreData{}, errors.New("boom")
		}
		return events.ScoreData{EventID: id, CurrentScore: "2:1"}, nil
	}}
}

func TestRetryingFetcherRetriesAndSucceeds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock := clockwork.NewFakeClock()
	inner := flakey(2)
	logger, buf := testutil.NewBufferLogger()
	f := NewRetryingFetcher(inner, retry.Policy{MaxAttempts: 3, Initial: time.Second}, clock, logger)

	type result struct {
		data events.ScoreData
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := f.FetchScore(ctx, "e1")
		done <- result{data, err}
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Second)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Second)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "2:1", res.data.CurrentScore)
	assert.Equal(t, int32(3), inner.Calls.Load())
	assert.Contains(t, buf.String(), "score fetch retry")
}

func TestRetryingFetcherGivesUpAfterMaxAttempts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock := clockwork.NewFakeClock()
	inner := flakey(10)
	f := NewRetryingFetcher(inner, retry.Policy{MaxAttempts: 2, Initial: time.Second}, clock, nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.FetchScore(ctx, "e1")
		done <- err
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Second)

	assert.EqualError(t, <-done, "boom")
	assert.Equal(t, int32(2), inner.Calls.Load())
}

func TestRetryingFetcherTreatsEmptyScoreAsFailure(t *testing.T) {
	inner := &teststubs.StubFetcher{Score: ""}
	f := NewRetryingFetcher(inner, retry.Policy{MaxAttempts: 1, Initial: time.Second}, clockwork.NewFakeClock(), nil)

	_, err := f.FetchScore(context.Background(), "e1")
	assert.ErrorIs(t, err, ErrEmptyScore)
}

func TestRetryingFetcherAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	inner := flakey(10)
	f := NewRetryingFetcher(inner, retry.Policy{MaxAttempts: 3, Initial: time.Second}, clock, nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.FetchScore(ctx, "e1")
		done <- err
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(1), inner.Calls.Load())
}

func TestRetryingFetcherNilInner(t *testing.T) {
	f := NewRetryingFetcher(nil, retry.Policy{}, nil, nil)
	_, err := f.FetchScore(context.Background(), "e1")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
