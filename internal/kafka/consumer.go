package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// NewConsumer creates a group consumer over the given topics
func NewConsumer(brokers []string, topics []string, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupTopics: topics,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: reader, logger: log}
}

// Start reads events until ctx is cancelled. Messages that do not decode
// are logged and skipped.
func (c *Consumer) Start(ctx context.Context, handler func(models.OrderEvent)) error {
	c.logger.Info("KAFKA", "Kafka consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("KAFKA", fmt.Sprintf("Error reading message: %v", err))
			continue
		}

		event, err := DecodeEvent(msg.Value)
		if err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Failed to decode message at offset %d: %v", msg.Offset, err))
			continue
		}
		handler(event)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func DecodeEvent(value []byte) (models.OrderEvent, error) {
	var event models.OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return event, err
	}
	if event.Type == "" {
		return event, errors.New("event has no type")
	}
	return event, nil
}
