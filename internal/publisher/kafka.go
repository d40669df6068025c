package publisher

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IBM/sarama"

	"github.com/preston-bernstein/live-event-tracker/internal/logging"
)

// KafkaConfig describes the broker connection for the score topic.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	SASLUser     string
	SASLPassword string
	TLS          bool
}

// NewProducerConfig returns an idempotent, fully acknowledged producer configuration.
// Messages are partitioned by key so each event keeps its order.
func NewProducerConfig(cfg KafkaConfig) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_6_0_0
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	sc.Producer.Idempotent = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 5
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.Net.MaxOpenRequests = 1

	if cfg.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		sc.Net.SASL.User = cfg.SASLUser
		sc.Net.SASL.Password = cfg.SASLPassword
	}
	if cfg.TLS {
		sc.Net.TLS.Enable = true
		sc.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return sc
}

// DialKafka connects an async producer to the configured brokers.
func DialKafka(cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, NewProducerConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaPublisher(producer, cfg.Topic, logger), nil
}

// KafkaPublisher routes broker acknowledgements back to the caller of Publish.
// The producer must have Return.Successes and Return.Errors enabled.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *slog.Logger

	mu      sync.RWMutex
	closed  bool
	drained chan struct{}
}

// NewKafkaPublisher wraps producer and starts draining its result channels.
func NewKafkaPublisher(producer sarama.AsyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		drained:  make(chan struct{}),
	}
	go p.drain()
	return p
}

// Topic returns the destination topic.
func (p *KafkaPublisher) Topic() string {
	return p.topic
}

// Publish enqueues payload keyed by key. The returned Ack settles when the broker
// answers, when ctx ends before the producer accepts the message, or immediately
// after Close.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, payload []byte) Ack {
	ack := make(chan error, 1)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		ack <- ErrPublisherClosed
		return ack
	}

	msg := &sarama.ProducerMessage{
		Topic:    p.topic,
		Key:      sarama.StringEncoder(key),
		Value:    sarama.ByteEncoder(payload),
		Metadata: ack,
	}
	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
		ack <- ctx.Err()
	}
	return ack
}

// Close stops accepting messages, flushes what the producer holds and waits for
// every pending Ack to settle.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.drained
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.producer.AsyncClose()
	<-p.drained
	logging.Info(p.logger, "kafka publisher closed", logging.FieldTopic, p.topic)
	return nil
}

func (p *KafkaPublisher) drain() {
	defer close(p.drained)

	successes, failures := p.producer.Successes(), p.producer.Errors()
	for successes != nil || failures != nil {
		select {
		case msg, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			logging.Debug(p.logger, "score acknowledged",
				logging.FieldTopic, msg.Topic,
				logging.FieldPartition, msg.Partition,
				logging.FieldOffset, msg.Offset,
			)
			settle(msg, nil)
		case perr, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			settle(perr.Msg, perr.Err)
		}
	}
}

func settle(msg *sarama.ProducerMessage, err error) {
	if msg == nil {
		return
	}
	if ack, ok := msg.Metadata.(chan error); ok {
		ack <- err
	}
}
