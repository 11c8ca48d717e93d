package events

import (
	"context"
	"encoding/json"
	"fmt"

	"advance/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the subset of kafka.Writer used to publish events.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSubscriber forwards every event to a topic as JSON, keyed by the
// deposit's transaction reference so one deposit's events stay ordered.
type KafkaSubscriber struct {
	writer MessageWriter
	log    *zap.Logger
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafkaSubscriber(writer MessageWriter, log *zap.Logger) *KafkaSubscriber {
	if writer == nil {
		panic("writer is required")
	}
	return &KafkaSubscriber{writer: writer, log: logger.OrNop(log).Named("kafka")}
}

func (k *KafkaSubscriber) Name() string { return "kafka" }

func (k *KafkaSubscriber) Handle(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Deposit.TransactionReference),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
			{Key: "event_id", Value: []byte(e.ID)},
		},
		Time: e.OccurredAt,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.ID, err)
	}
	k.log.Debug("event published", zap.String("event_id", e.ID), zap.String("type", string(e.Type)))
	return nil
}

func (k *KafkaSubscriber) Close() error {
	return k.writer.Close()
}

var _ Subscriber = (*KafkaSubscriber)(nil)
