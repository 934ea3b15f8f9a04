package infra

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventPublisher pushes game events onto the live feed topic. When
// disabled, publishes are no-ops so the lifecycle path never depends on
// a broker being up.
type EventPublisher struct {
	writer  *kafka.Writer
	topic   string
	logger  *slog.Logger
	enabled bool
}

// NewEventPublisher creates a Kafka-backed publisher. If brokers is
// empty or disabled, publishes are no-ops.
func NewEventPublisher(brokers, topic string, enabled bool, logger *slog.Logger) *EventPublisher {
	if !enabled || brokers == "" {
		logger.Info("game event feed disabled")
		return &EventPublisher{enabled: false, logger: logger}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("game event feed initialized", "brokers", brokers, "topic", topic)
	return &EventPublisher{writer: w, topic: topic, logger: logger, enabled: true}
}

// Publish sends one event keyed by game ID. No-op if disabled.
func (p *EventPublisher) Publish(ctx context.Context, key, value []byte) error {
	if !p.enabled {
		return nil
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   key,
		Value: value,
	})
}

// Close shuts down the Kafka writer.
func (p *EventPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
