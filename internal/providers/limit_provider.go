package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
)

const limiterSource = "rate-limited"

// rateLimitedFetcher shares one upstream quota across every worker.
type rateLimitedFetcher struct {
	next     ScoreFetcher
	limiter  *rate.Limiter
	logger   *slog.Logger
	recorder *metrics.Recorder
}

// NewRateLimitedFetcher returns a ScoreFetcher that allows at most perSecond calls per second
// with the given burst. A non-positive rate disables limiting and returns next unchanged.
func NewRateLimitedFetcher(next ScoreFetcher, perSecond float64, burst int, logger *slog.Logger, recorder *metrics.Recorder) ScoreFetcher {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedFetcher{
		next:     next,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:   logger,
		recorder: recorder,
	}
}

func (p *rateLimitedFetcher) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	if p.next == nil {
		logWithSource(ctx, p.logger, slog.LevelWarn, limiterSource, eventID, "provider unavailable")
		return events.ScoreData{}, ErrProviderUnavailable
	}

	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		logWithSource(ctx, p.logger, slog.LevelWarn, limiterSource, eventID, "rate-limited fetch canceled", "err", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return events.ScoreData{}, ctxErr
		}
		return events.ScoreData{}, err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		p.recorder.RecordRateLimitWait(limiterSource, waited)
		logWithSource(ctx, p.logger, slog.LevelDebug, limiterSource, eventID, "waited for upstream quota", "waited", waited)
	}
	return p.next.FetchScore(ctx, eventID)
}
