package publisher

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogPublisherAcknowledgesAndLogs(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher("scores", slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NoError(t, <-p.Publish(context.Background(), "e1", []byte(`{"eventId":"e1"}`)))
	assert.Contains(t, buf.String(), "score published")
	assert.Contains(t, buf.String(), "event_id=e1")
}

func TestLogPublisherAfterClose(t *testing.T) {
	p := NewLogPublisher("scores", nil)
	assert.NoError(t, p.Close())
	assert.ErrorIs(t, <-p.Publish(context.Background(), "e1", nil), ErrPublisherClosed)
}

func TestLogPublisherCancelledContext(t *testing.T) {
	p := NewLogPublisher("scores", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, <-p.Publish(ctx, "e1", nil), context.Canceled)
}
