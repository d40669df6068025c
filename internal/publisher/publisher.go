package publisher

import (
	"context"
	"errors"
)

// ErrPublisherClosed is returned for messages handed over after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// Ack resolves exactly once with the broker outcome of a single message.
// A nil value means the broker acknowledged the write.
type Ack <-chan error

// Publisher hands keyed messages to a durable topic.
// Publish must not wait for the broker; messages published with the same key
// are delivered in handoff order.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) Ack
	Close() error
}

// Resolved returns an Ack that is already settled with err.
func Resolved(err error) Ack {
	ch := make(chan error, 1)
	ch <- err
	return ch
}

// Wait blocks until ack settles or ctx ends.
func Wait(ctx context.Context, ack Ack) error {
	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
