package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	EventOrderPlaced    OrderEventType = "order.placed"
	EventOrderCompleted OrderEventType = "order.completed"
	EventOrderPaid      OrderEventType = "order.paid"
	EventSessionClosed  OrderEventType = "session.closed"
)

// OrderEvent is published to the event stream after each successful
// lifecycle transition.
type OrderEvent struct {
	EventID       string         `json:"event_id"`
	SessionID     string         `json:"session_id"`
	Type          OrderEventType `json:"type"`
	TableID       int            `json:"table_id,omitempty"`
	Guests        int            `json:"guests,omitempty"`
	Items         []string       `json:"items,omitempty"`
	Total         string         `json:"total,omitempty"`
	ReceiptNumber int            `json:"receipt_number,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// NewOrderEvent stamps a fresh event ID and time.
func NewOrderEvent(sessionID string, eventType OrderEventType, tableID int) OrderEvent {
	return OrderEvent{
		EventID:    uuid.NewString(),
		SessionID:  sessionID,
		Type:       eventType,
		TableID:    tableID,
		OccurredAt: time.Now().UTC(),
	}
}
