package session

import (
	"context"
	"errors"
	"fmt"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/menu"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/order"
	"ms-restaurant/internal/receipt"
	"ms-restaurant/internal/tables"
	"ms-restaurant/internal/utils"

	"github.com/shopspring/decimal"
)

// ErrReceiptNotSaved is returned when a payment went through but its
// receipt could not be written. The payment is not rolled back.
var ErrReceiptNotSaved = errors.New("payment recorded but receipt was not saved")

type ReceiptIssuer interface {
	Issue(ctx context.Context, payment models.Payment) (receipt.Issued, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.OrderEvent) error
}

// Summary is reported when the session closes.
type Summary struct {
	SessionID      string
	OrdersSettled  int
	ReceiptsIssued int
	Revenue        decimal.Decimal
}

// Service is the menu surface of one restaurant session. It drives the
// table registry and order ledger, issues receipts and streams lifecycle
// events. It is owned by a single control loop.
type Service struct {
	Tables    *tables.Registry
	Ledger    *order.Ledger
	Catalog   *menu.Catalog
	Receipts  ReceiptIssuer
	Events    EventPublisher
	Logger    *logger.Logger
	SessionID string

	settled  int
	receipts int
	revenue  decimal.Decimal
}

func NewService(registry *tables.Registry, catalog *menu.Catalog, calc billing.Calculator, receipts ReceiptIssuer, events EventPublisher, log *logger.Logger) *Service {
	return &Service{
		Tables:    registry,
		Ledger:    order.NewLedger(registry, catalog, calc),
		Catalog:   catalog,
		Receipts:  receipts,
		Events:    events,
		Logger:    log,
		SessionID: utils.GenerateSessionID(),
		revenue:   decimal.Zero,
	}
}

// ---------------- ORDERS ----------------

func (s *Service) PlaceOrder(ctx context.Context, tableID, guests int, selections []int) (models.Order, error) {
	placed, err := s.Ledger.PlaceOrder(tableID, guests, selections)
	if err != nil {
		s.Logger.LogOrder("REJECTED", tableID, fmt.Sprintf("place order for %d guest(s): %v", guests, err))
		return models.Order{}, err
	}
	s.Logger.LogOrder("PLACED", tableID, fmt.Sprintf("%d guest(s) seated, order now has %d item(s)", guests, len(placed.Items)))

	event := models.NewOrderEvent(s.SessionID, models.EventOrderPlaced, tableID)
	event.Guests = guests
	event.Items = itemNames(placed.Items[len(placed.Items)-len(selections):])
	s.publish(ctx, event)

	return placed, nil
}

func (s *Service) CompleteOrder(ctx context.Context, tableID int) error {
	if err := s.Ledger.MarkCompleted(tableID); err != nil {
		s.Logger.LogOrder("REJECTED", tableID, fmt.Sprintf("complete order: %v", err))
		return err
	}
	s.Logger.LogOrder("COMPLETED", tableID, "order marked as completed")
	s.publish(ctx, models.NewOrderEvent(s.SessionID, models.EventOrderCompleted, tableID))
	return nil
}

// Bill previews what PayOrder would charge.
func (s *Service) Bill(tableID int) (models.Bill, error) {
	return s.Ledger.Bill(tableID)
}

// PayOrder asks confirm to approve the bill. A declined confirmation
// returns (nil, nil) and changes nothing. On approval the table is freed,
// the order is marked paid and a receipt is issued.
func (s *Service) PayOrder(ctx context.Context, tableID int, confirm func(models.Bill) bool) (*receipt.Issued, error) {
	payment, err := s.Ledger.RecordPayment(tableID, confirm)
	if err != nil {
		s.Logger.LogOrder("REJECTED", tableID, fmt.Sprintf("pay order: %v", err))
		return nil, err
	}
	if !payment.Paid {
		s.Logger.LogOrder("CANCELLED", tableID, "payment declined by operator")
		return nil, nil
	}

	s.settled++
	s.revenue = s.revenue.Add(payment.Bill.Total)
	s.Logger.LogOrder("PAID", tableID, fmt.Sprintf("paid $%s", billing.Money(payment.Bill.Total)))

	event := models.NewOrderEvent(s.SessionID, models.EventOrderPaid, tableID)
	event.Items = itemNames(payment.Order.Items)
	event.Total = billing.Money(payment.Bill.Total)

	issued, err := s.Receipts.Issue(ctx, payment)
	if err != nil {
		s.Logger.Error("RECEIPT", fmt.Sprintf("Receipt for table %d not saved: %v", tableID, err))
		s.publish(ctx, event)
		return nil, fmt.Errorf("%w: %v", ErrReceiptNotSaved, err)
	}
	s.receipts++
	event.ReceiptNumber = issued.Receipt.Number
	s.publish(ctx, event)

	return &issued, nil
}

// ---------------- STATUS ----------------

func (s *Service) QueryStatus() []models.TableStatus {
	snapshot := s.Tables.Tables()
	out := make([]models.TableStatus, 0, len(snapshot))
	for _, t := range snapshot {
		out = append(out, models.TableStatus{
			TableID:      t.ID,
			Capacity:     t.Capacity,
			SeatedGuests: t.SeatedGuests,
			Status:       s.Ledger.StatusOf(t.ID),
		})
	}
	return out
}

// Pending reports whether some order still needs completion or payment.
func (s *Service) Pending() bool {
	return !s.Ledger.AllSettled()
}

func (s *Service) AvailableSeats(tableID int) (int, error) {
	return s.Tables.AvailableSeats(tableID)
}

func (s *Service) Menu() []models.MenuItem {
	return s.Catalog.Items()
}

func (s *Service) Summary() Summary {
	return Summary{
		SessionID:      s.SessionID,
		OrdersSettled:  s.settled,
		ReceiptsIssued: s.receipts,
		Revenue:        s.revenue,
	}
}

// CloseSession succeeds only when every order is completed and paid,
// which includes a session where nothing was ordered.
func (s *Service) CloseSession(ctx context.Context) (Summary, bool) {
	if !s.Ledger.AllSettled() {
		s.Logger.Warn("SESSION", "Close refused: orders are still pending")
		return Summary{}, false
	}

	summary := s.Summary()
	s.Logger.Info("SESSION", fmt.Sprintf("Session %s closed: %d order(s) settled, %d receipt(s) issued, revenue $%s",
		summary.SessionID, summary.OrdersSettled, summary.ReceiptsIssued, billing.Money(summary.Revenue)))

	event := models.NewOrderEvent(s.SessionID, models.EventSessionClosed, 0)
	event.Total = billing.Money(summary.Revenue)
	s.publish(ctx, event)

	return summary, true
}

func (s *Service) publish(ctx context.Context, event models.OrderEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Kafka publish error (%s): %v", event.Type, err))
	}
}

func itemNames(items []models.MenuItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
