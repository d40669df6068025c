package publisher

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/preston-bernstein/live-event-tracker/internal/logging"
)

// LogPublisher writes messages to the logger instead of a broker.
// It is used when no brokers are configured.
type LogPublisher struct {
	topic  string
	logger *slog.Logger
	closed atomic.Bool
}

// NewLogPublisher returns a publisher that acknowledges every message after logging it.
func NewLogPublisher(topic string, logger *slog.Logger) *LogPublisher {
	return &LogPublisher{topic: topic, logger: logger}
}

// Publish logs the message and settles immediately.
func (p *LogPublisher) Publish(ctx context.Context, key string, payload []byte) Ack {
	if p.closed.Load() {
		return Resolved(ErrPublisherClosed)
	}
	if err := ctx.Err(); err != nil {
		return Resolved(err)
	}
	logging.Info(p.logger, "score published",
		logging.FieldTopic, p.topic,
		logging.FieldEventID, key,
		"payload", string(payload),
	)
	return Resolved(nil)
}

// Close rejects further messages.
func (p *LogPublisher) Close() error {
	p.closed.Store(true)
	return nil
}
