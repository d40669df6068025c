package server

import "context"

// Tracker is the event service behaviour the server drives at shutdown.
type Tracker interface {
	Shutdown(ctx context.Context) error
}
