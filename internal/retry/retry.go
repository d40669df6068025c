package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
)

const defaultInitial = 100 * time.Millisecond

// Policy bounds how many times an operation runs and how long to wait between runs.
// Waits start at Initial and double after every failure, without jitter.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Initial <= 0 {
		p.Initial = defaultInitial
	}
	return p
}

// Delays lists the waits between consecutive attempts.
func (p Policy) Delays() []time.Duration {
	p = p.normalized()
	delays := make([]time.Duration, 0, p.MaxAttempts-1)
	next := p.Initial
	for i := 1; i < p.MaxAttempts; i++ {
		delays = append(delays, next)
		next *= 2
	}
	return delays
}

// BackOff builds the backoff schedule for the policy, measured on clock.
func (p Policy) BackOff(clock clockwork.Clock) backoff.BackOff {
	p = p.normalized()
	if p.MaxAttempts == 1 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0
	b.Clock = clock
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
}

// Notify is called before each wait with the attempt that just failed.
type Notify func(attempt int, err error, wait time.Duration)

// Do runs op until it succeeds, the policy is exhausted, or ctx ends.
// op receives the 1-based attempt number. On exhaustion the last error is returned;
// on cancellation the context error is returned.
func Do(ctx context.Context, clock clockwork.Clock, p Policy, op func(attempt int) error, notify Notify) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	attempt := 0
	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++
		err := op(attempt)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, wait time.Duration) {
			notify(attempt, err, wait)
		}
	}

	b := backoff.WithContext(p.BackOff(clock), ctx)
	return backoff.RetryNotifyWithTimer(operation, b, onRetry, &clockTimer{clock: clock})
}

// clockTimer drives backoff waits from a clockwork clock so tests can advance virtual time.
type clockTimer struct {
	clock clockwork.Clock
	timer clockwork.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = t.clock.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.Chan()
}
