package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Topics struct {
	OrderPlaced    string
	OrderCompleted string
	OrderPaid      string
	SessionClosed  string
}

func (t Topics) All() []string {
	return []string{t.OrderPlaced, t.OrderCompleted, t.OrderPaid, t.SessionClosed}
}

func (t Topics) For(eventType models.OrderEventType) (string, error) {
	switch eventType {
	case models.EventOrderPlaced:
		return t.OrderPlaced, nil
	case models.EventOrderCompleted:
		return t.OrderCompleted, nil
	case models.EventOrderPaid:
		return t.OrderPaid, nil
	case models.EventSessionClosed:
		return t.SessionClosed, nil
	}
	return "", fmt.Errorf("no topic for event type %q", eventType)
}

type Producer struct {
	Writer MessageWriter
	Topics Topics
	Logger *logger.Logger
}

func NewProducer(brokers []string, topics Topics, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, Topics: topics, Logger: log}
}

// Publish streams a lifecycle event, keyed by table so one table's events
// stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, event models.OrderEvent) error {
	topic, err := p.Topics.For(event.Type)
	if err != nil {
		return err
	}

	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.Logger.LogKafka("PUBLISH", topic, string(msgBytes))

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.Itoa(event.TableID)),
		Value: msgBytes,
	})
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NoopPublisher is used when the event stream is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.OrderEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
