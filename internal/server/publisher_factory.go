package server

import (
	"log/slog"

	"github.com/preston-bernstein/live-event-tracker/internal/config"
	"github.com/preston-bernstein/live-event-tracker/internal/logging"
	"github.com/preston-bernstein/live-event-tracker/internal/publisher"
)

var dialKafka = func(cfg publisher.KafkaConfig, logger *slog.Logger) (publisher.Publisher, error) {
	return publisher.DialKafka(cfg, logger)
}

// buildPublisher selects Kafka when brokers are configured and the log publisher otherwise.
func buildPublisher(cfg config.Config, logger *slog.Logger) (publisher.Publisher, error) {
	if !cfg.Kafka.Enabled() {
		logging.Warn(logger, "no kafka brokers configured, scores will only be logged",
			logging.FieldTopic, cfg.Kafka.Topic,
		)
		return publisher.NewLogPublisher(cfg.Kafka.Topic, logger), nil
	}
	pub, err := dialKafka(publisher.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		ClientID:     cfg.Kafka.ClientID,
		SASLUser:     cfg.Kafka.SASLUser,
		SASLPassword: cfg.Kafka.SASLPassword,
		TLS:          cfg.Kafka.TLS,
	}, logger)
	if err != nil {
		return nil, err
	}
	logging.Info(logger, "kafka publisher ready",
		logging.FieldTopic, cfg.Kafka.Topic,
		"brokers", cfg.Kafka.Brokers,
	)
	return pub, nil
}
