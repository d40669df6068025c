package config

import "github.com/spf13/viper"

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

func loadMetrics(v *viper.Viper) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolOrDefault(v, keyMetricsEnabled, true),
		Port:         stringOrDefault(v, keyMetricsPort, defaultMetricsPort),
		OtlpEndpoint: stringOrDefault(v, keyOtelEndpoint, ""),
		ServiceName:  stringOrDefault(v, keyOtelService, defaultServiceName),
		OtlpInsecure: boolOrDefault(v, keyOtelInsecure, true),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  stringOrDefault(v, keyLogLevel, defaultLogLevel),
		Format: stringOrDefault(v, keyLogFormat, defaultLogFormat),
	}
}
