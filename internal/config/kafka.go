package config

import "github.com/spf13/viper"

// KafkaConfig describes the broker connection. No brokers selects the log publisher.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	SASLUser     string
	SASLPassword string
	TLS          bool
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

func loadKafka(v *viper.Viper) KafkaConfig {
	return KafkaConfig{
		Brokers:      listOrEmpty(v, keyKafkaBrokers),
		Topic:        stringOrDefault(v, keyPublishTopic, ""),
		ClientID:     stringOrDefault(v, keyKafkaClientID, defaultKafkaClientID),
		SASLUser:     stringOrDefault(v, keyKafkaSASLUser, ""),
		SASLPassword: stringOrDefault(v, keyKafkaSASLPassword, ""),
		TLS:          boolOrDefault(v, keyKafkaTLS, false),
	}
}
