package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrMissingTopic       = errors.New("publish.topic is required")
	ErrMissingUpstreamURL = errors.New("external-api.url is required when the mock upstream is disabled")
	ErrInvalidPort        = errors.New("server.port must be a TCP port number")
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	Upstream        UpstreamConfig
	Mock            MockConfig
	Poll            PollConfig
	Kafka           KafkaConfig
	ScoresTTL       Duration
	ShutdownTimeout Duration
	Log             LogConfig
	Metrics         MetricsConfig
}

// Load reads configuration from an optional file at path and the environment.
// Environment variables use the upper-cased key with dots and dashes replaced by
// underscores, e.g. POLL_PERIOD or EXTERNAL_API_URL.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	port := stringOrDefault(v, keyPort, defaultPort)
	mock := MockConfig{Enabled: boolOrDefault(v, keyMockUpstream, true)}
	cfg := Config{
		Port:            port,
		Upstream:        loadUpstream(v, port, mock.Enabled),
		Mock:            mock,
		Poll:            loadPoll(v),
		Kafka:           loadKafka(v),
		ScoresTTL:       durationOrDefault(v, keyScoresTTL, defaultScoresTTL),
		ShutdownTimeout: durationOrDefault(v, keyShutdownTimeout, defaultShutdownTimeout),
		Log:             loadLog(v),
		Metrics:         loadMetrics(v),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed required option.
func (c Config) Validate() error {
	var errs []error
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPort, c.Port))
	}
	if c.Kafka.Topic == "" {
		errs = append(errs, ErrMissingTopic)
	}
	if c.Upstream.BaseURL == "" {
		errs = append(errs, ErrMissingUpstreamURL)
	}
	return errors.Join(errs...)
}
