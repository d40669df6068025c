package config

import "time"

const (
	keyPort              = "server.port"
	keyUpstreamURL       = "external-api.url"
	keyUpstreamTimeout   = "external-api.timeout"
	keyUpstreamRateLimit = "external-api.rate-limit"
	keyUpstreamBurst     = "external-api.burst"
	keyPublishTopic      = "publish.topic"
	keyPollInitialDelay  = "poll.initial-delay"
	keyPollPeriod        = "poll.period"
	keyFetchAttempts     = "fetch.max-attempts"
	keyFetchBackoff      = "fetch.backoff.initial"
	keyPublishAttempts   = "publish.max-attempts"
	keyPublishBackoff    = "publish.backoff.initial"
	keyKafkaBrokers      = "kafka.brokers"
	keyKafkaClientID     = "kafka.client-id"
	keyKafkaSASLUser     = "kafka.sasl.username"
	keyKafkaSASLPassword = "kafka.sasl.password"
	keyKafkaTLS          = "kafka.tls"
	keyMockUpstream      = "mock-upstream.enabled"
	keyScoresTTL         = "scores.ttl"
	keyShutdownTimeout   = "shutdown.timeout"
	keyLogLevel          = "log.level"
	keyLogFormat         = "log.format"
	keyMetricsEnabled    = "metrics.enabled"
	keyMetricsPort       = "metrics.port"
	keyOtelService       = "otel.service.name"
	keyOtelEndpoint      = "otel.exporter.otlp.endpoint"
	keyOtelInsecure      = "otel.exporter.otlp.insecure"

	defaultPort             = "8080"
	defaultUpstreamTimeout  = 3 * time.Second
	defaultUpstreamBurst    = 10
	defaultPollInitialDelay = time.Second
	defaultPollPeriod       = 10 * time.Second
	defaultFetchAttempts    = 3
	defaultFetchBackoff     = time.Second
	defaultPublishAttempts  = 3
	defaultPublishBackoff   = 500 * time.Millisecond
	defaultKafkaClientID    = "live-event-tracker"
	defaultScoresTTL        = 5 * time.Minute
	defaultShutdownTimeout  = 10 * time.Second
	defaultLogLevel         = "info"
	defaultLogFormat        = "text"
	defaultMetricsPort      = "9090"
	defaultServiceName      = "live-event-tracker"

	mockAPIPath = "/mock-api"
)
