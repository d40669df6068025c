package server

import (
	"log/slog"

	"github.com/preston-bernstein/live-event-tracker/internal/config"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
	"github.com/preston-bernstein/live-event-tracker/internal/providers"
	"github.com/preston-bernstein/live-event-tracker/internal/providers/upstream"
)

// providerFactory assembles the upstream fetcher with shared wrappers (metrics + rate limit).
// Retries are layered on by the poller supervisor.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providers.ScoreFetcher {
	client := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	instrumented := providers.NewInstrumentedFetcher(client, f.metrics, client.Name())
	return providers.NewRateLimitedFetcher(instrumented, cfg.Upstream.RateLimit, cfg.Upstream.Burst, f.logger, f.metrics)
}
