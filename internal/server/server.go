package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	appevents "github.com/preston-bernstein/live-event-tracker/internal/app/events"
	"github.com/preston-bernstein/live-event-tracker/internal/config"
	httpserver "github.com/preston-bernstein/live-event-tracker/internal/http"
	"github.com/preston-bernstein/live-event-tracker/internal/http/handlers"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/metrics"
	"github.com/preston-bernstein/live-event-tracker/internal/poller"
	"github.com/preston-bernstein/live-event-tracker/internal/providers"
	"github.com/preston-bernstein/live-event-tracker/internal/providers/mock"
	"github.com/preston-bernstein/live-event-tracker/internal/publisher"
	"github.com/preston-bernstein/live-event-tracker/internal/registry"
	"github.com/preston-bernstein/live-event-tracker/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	scores        *store.ScoreStore
	tracker       Tracker
	publisher     publisher.Publisher
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	storeRunning  bool
}

// components are the swappable collaborators behind a Server.
type components struct {
	recorder    *metrics.Recorder
	metricsSrv  httpServer
	metricsStop func(context.Context) error
	fetcher     providers.ScoreFetcher
	publisher   publisher.Publisher
	clock       clockwork.Clock
}

// New constructs a server with the configured upstream, publisher and telemetry.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsStop := buildMetrics(cfg, logger, nil)

	pub, err := buildPublisher(cfg, logger)
	if err != nil {
		if metricsStop != nil {
			_ = metricsStop(context.Background())
		}
		return nil, err
	}

	return assemble(cfg, logger, components{
		recorder:    recorder,
		metricsSrv:  metricsSrv,
		metricsStop: metricsStop,
		fetcher:     newProviderFactory(logger, recorder).build(cfg),
		publisher:   pub,
		clock:       clockwork.NewRealClock(),
	}), nil
}

func assemble(cfg config.Config, logger *slog.Logger, c components) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	if c.recorder == nil {
		c.recorder = metrics.NewRecorder()
	}

	reg := registry.New()
	scores := store.NewScoreStore(cfg.ScoresTTL)
	supervisor := poller.NewSupervisor(poller.Deps{
		Registry:  reg,
		Fetcher:   c.fetcher,
		Publisher: c.publisher,
		Sink:      scores,
		Clock:     c.clock,
		Logger:    logger,
		Metrics:   c.recorder,
	}, poller.Config{
		InitialDelay: cfg.Poll.InitialDelay,
		Period:       cfg.Poll.Period,
		Fetch:        cfg.Poll.Fetch,
		Publish:      cfg.Poll.Publish,
		Topic:        cfg.Kafka.Topic,
	})
	service := appevents.NewService(reg, supervisor, scores, logger, c.recorder)

	var mockHandler *handlers.MockHandler
	if cfg.Mock.Enabled {
		mockHandler = handlers.NewMockHandler(mock.New(), logger)
	}
	router := httpserver.NewRouter(handlers.NewHandler(service, logger), mockHandler, logger, c.recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       c.recorder,
		scores:        scores,
		tracker:       service,
		publisher:     c.publisher,
		httpServer:    newNetHTTPServer(":"+cfg.Port, router),
		metricsServer: c.metricsSrv,
		metricsStop:   c.metricsStop,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, tracker Tracker, httpSrv httpServer, pub publisher.Publisher) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		scores:     store.NewScoreStore(cfg.ScoresTTL),
		tracker:    tracker,
		publisher:  pub,
		httpServer: httpSrv,
	}
}

// Run starts the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.storeRunning = true
	go s.scores.Start()
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown stops intake first, then workers, then the publisher so
// in-flight acknowledgements can still settle.
func (s *Server) gracefulShutdown() {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = shutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.tracker != nil {
		if err := s.tracker.Shutdown(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop pollers", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Error(s.logger, "publisher close failed", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "err", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "err", err)
		}
	}

	if s.storeRunning {
		s.scores.Stop()
	}
	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newNetHTTPServer(":"+recCfg.Port, handler)
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", "addr", srv.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "err", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
