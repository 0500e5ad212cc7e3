package notifications

import (
	"context"
	"fmt"
	"time"

	"eventure/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher interface defines the contract for emitting transaction events
type Publisher interface {
	Publish(ctx context.Context, event *TransactionEvent) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka publisher
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:      brokers,
		Topic:        topic,
		RetryMax:     3,
		Timeout:      10 * time.Second,
		RequiredAcks: sarama.WaitForAll,
	}
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	log      *logger.Logger
}

// NewKafkaPublisher creates a sync producer with idempotent writes so a
// retried send never duplicates a lifecycle message.
func NewKafkaPublisher(config *ProducerConfig, log *logger.Logger) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaPublisher{
		producer: producer,
		config:   config,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *TransactionEvent) error {
	messageBytes, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("transaction_id"), Value: []byte(event.TransactionID.String())},
		},
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}

	p.log.Debug("transaction event published",
		"topic", p.config.Topic,
		"partition", partition,
		"offset", offset,
		"type", string(event.Type),
		"transaction_id", event.TransactionID.String(),
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// NoopPublisher drops every event. Used when no brokers are configured so
// the booking path never depends on Kafka being up.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return &NoopPublisher{}
}

func (NoopPublisher) Publish(ctx context.Context, event *TransactionEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
