package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/live-event-tracker/internal/logging"
)

// logWithSource emits a log entry if logger is non-nil and always includes the source and event.
func logWithSource(ctx context.Context, logger *slog.Logger, level slog.Level, source, eventID, msg string, args ...any) {
	logger = logging.FromContext(ctx, logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String("source", source), slog.String(logging.FieldEventID, eventID))
	logger.Log(ctx, level, msg, args...)
}
