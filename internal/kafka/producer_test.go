package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ms-restaurant/internal/kafka"
	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

var testTopics = kafka.Topics{
	OrderPlaced:    "restaurant.order.placed",
	OrderCompleted: "restaurant.order.completed",
	OrderPaid:      "restaurant.order.paid",
	SessionClosed:  "restaurant.session.closed",
}

func TestPublishRoutesByEventType(t *testing.T) {
	writer := new(MockWriter)
	producer := &kafka.Producer{Writer: writer, Topics: testTopics, Logger: logger.Discard()}

	event := models.NewOrderEvent("session-1", models.EventOrderPaid, 2)
	event.Total = "107.90"

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafkago.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		var decoded models.OrderEvent
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return msgs[0].Topic == "restaurant.order.paid" &&
			string(msgs[0].Key) == "2" &&
			decoded.EventID == event.EventID &&
			decoded.Total == "107.90"
	})).Return(nil)

	require.NoError(t, producer.Publish(context.Background(), event))
	writer.AssertExpectations(t)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	writer := new(MockWriter)
	producer := &kafka.Producer{Writer: writer, Topics: testTopics, Logger: logger.Discard()}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := producer.Publish(context.Background(), models.NewOrderEvent("s", models.EventOrderPlaced, 1))
	assert.EqualError(t, err, "broker down")
}

func TestPublishUnknownType(t *testing.T) {
	writer := new(MockWriter)
	producer := &kafka.Producer{Writer: writer, Topics: testTopics, Logger: logger.Discard()}

	err := producer.Publish(context.Background(), models.OrderEvent{Type: "order.refunded"})
	assert.Error(t, err)
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestTopicsAll(t *testing.T) {
	assert.Len(t, testTopics.All(), 4)
	topic, err := testTopics.For(models.EventSessionClosed)
	require.NoError(t, err)
	assert.Equal(t, "restaurant.session.closed", topic)
}

func TestDecodeEvent(t *testing.T) {
	event := models.NewOrderEvent("session-1", models.EventOrderCompleted, 4)
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := kafka.DecodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, 4, decoded.TableID)

	_, err = kafka.DecodeEvent([]byte(`{"table_id":1}`))
	assert.Error(t, err)
	_, err = kafka.DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	var p kafka.NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), models.OrderEvent{}))
	assert.NoError(t, p.Close())
}
