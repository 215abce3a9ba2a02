package repository

import (
	"context"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	pkgkafka "StockScan/pkg/kafka"
)

// KafkaSignalPublisher emits confirmed signals to a Kafka topic, keyed by
// symbol so one symbol's signals stay ordered within a partition.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, signal *models.Signal) error {
	return p.producer.Publish(ctx, p.topic, []byte(signal.Symbol), signal)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopSignalPublisher is used when Kafka is not configured.
type NoopSignalPublisher struct{}

func (NoopSignalPublisher) Publish(context.Context, *models.Signal) error { return nil }
func (NoopSignalPublisher) Close() error                                  { return nil }
