package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/retry"
)

const retrySource = "retrying"

// retryingFetcher wraps a ScoreFetcher with bounded exponential retries.
type retryingFetcher struct {
	inner  ScoreFetcher
	logger *slog.Logger
	clock  clockwork.Clock
	policy retry.Policy
}

// NewRetryingFetcher wraps inner with retries measured on clock. A response without a score
// counts as a failed attempt.
func NewRetryingFetcher(inner ScoreFetcher, policy retry.Policy, clock clockwork.Clock, logger *slog.Logger) ScoreFetcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &retryingFetcher{
		inner:  inner,
		logger: logger,
		clock:  clock,
		policy: policy,
	}
}

func (r *retryingFetcher) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	if r.inner == nil {
		return events.ScoreData{}, ErrProviderUnavailable
	}

	var result events.ScoreData
	attempts := 0
	err := retry.Do(ctx, r.clock, r.policy, func(attempt int) error {
		attempts = attempt
		data, err := r.inner.FetchScore(ctx, eventID)
		if err != nil {
			return err
		}
		result, err = Validate(eventID, data)
		return err
	}, func(attempt int, err error, wait time.Duration) {
		logWithSource(ctx, r.logger, slog.LevelWarn, retrySource, eventID, "score fetch retry",
			logging.FieldAttempt, attempt, "max_attempts", r.policy.MaxAttempts, "backoff", wait, "err", err)
	})
	if err != nil {
		logWithSource(ctx, r.logger, slog.LevelDebug, retrySource, eventID, "score fetch gave up",
			"attempts", attempts, "err", err)
		return events.ScoreData{}, err
	}
	return result, nil
}
