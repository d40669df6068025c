package providers

import (
	"context"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
)

// ScoreFetcher retrieves the current score for a single event.
// Implementations must honor ctx cancellation.
type ScoreFetcher interface {
	FetchScore(ctx context.Context, eventID string) (events.ScoreData, error)
}

// FetcherFunc adapts a function to ScoreFetcher.
type FetcherFunc func(ctx context.Context, eventID string) (events.ScoreData, error)

// FetchScore calls f.
func (f FetcherFunc) FetchScore(ctx context.Context, eventID string) (events.ScoreData, error) {
	return f(ctx, eventID)
}

// Validate rejects score payloads that carry no score.
func Validate(eventID string, data events.ScoreData) (events.ScoreData, error) {
	if data.CurrentScore == "" {
		return events.ScoreData{}, ErrEmptyScore
	}
	if data.EventID == "" {
		data.EventID = eventID
	}
	return data, nil
}
