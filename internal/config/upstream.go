package config

import "github.com/spf13/viper"

// UpstreamConfig describes the score endpoint the workers poll.
type UpstreamConfig struct {
	BaseURL string
	Timeout Duration
	// RateLimit is requests per second across all workers; zero disables limiting.
	RateLimit float64
	Burst     int
}

// MockConfig toggles the in-process mock upstream.
type MockConfig struct {
	Enabled bool
}

func loadUpstream(v *viper.Viper, port string, mock bool) UpstreamConfig {
	defaultURL := ""
	if mock {
		defaultURL = "http://localhost:" + port + mockAPIPath
	}
	return UpstreamConfig{
		BaseURL:   stringOrDefault(v, keyUpstreamURL, defaultURL),
		Timeout:   durationOrDefault(v, keyUpstreamTimeout, defaultUpstreamTimeout),
		RateLimit: floatOrDefault(v, keyUpstreamRateLimit, 0),
		Burst:     intOrDefault(v, keyUpstreamBurst, defaultUpstreamBurst),
	}
}
