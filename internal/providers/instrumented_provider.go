package providers

import (
	"context"
	"time"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
)

type instrumentedFetcher struct {
	next     ScoreFetcher
	recorder *metrics.Recorder
	source   string
}

// NewInstrumentedFetcher records latency and outcome for every call to next.
func NewInstrumentedFetcher(next ScoreFetcher, recorder *metrics.Recorder, source string) ScoreFetcher {
	if recorder == nil {
		return next
	}
	return &instrumentedFetcher{next: next, recorder: recorder, source: source}
}

func (p *instrumentedFetcher) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	start := time.Now()
	data, err := p.next.FetchScore(ctx, eventID)
	if err == nil && data.CurrentScore == "" {
		p.recorder.RecordFetchAttempt(p.source, time.Since(start), ErrEmptyScore)
		return data, nil
	}
	p.recorder.RecordFetchAttempt(p.source, time.Since(start), err)
	return data, err
}
