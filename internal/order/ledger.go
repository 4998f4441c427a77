package order

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/menu"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/tables"
)

var (
	ErrNoOrder      = errors.New("no order for table")
	ErrNotCompleted = errors.New("order is not completed yet")
	ErrOrderClosed  = errors.New("order is completed and awaiting payment")
	ErrAlreadyPaid  = errors.New("order is already paid")
)

// Ledger owns every order and the rules for moving them through
// OPEN -> COMPLETED -> PAID. A table with no entry is UNPLACED.
//
// The ledger is driven by a single control loop; it never performs I/O.
type Ledger struct {
	tables  *tables.Registry
	catalog *menu.Catalog
	billing billing.Calculator

	orders map[int]*models.Order
	// paid orders whose table has since been re-seated
	history []models.Order

	now func() time.Time
}

func NewLedger(registry *tables.Registry, catalog *menu.Catalog, calc billing.Calculator) *Ledger {
	return &Ledger{
		tables:  registry,
		catalog: catalog,
		billing: calc,
		orders:  make(map[int]*models.Order),
		now:     time.Now,
	}
}

// PlaceOrder seats guests at the table and appends one item per selection
// to the table's order, creating it if needed. A paid order is archived and
// a new seating starts a fresh order. Every guard runs before any state is
// touched, so a rejected call leaves registry and ledger unchanged.
func (l *Ledger) PlaceOrder(tableID, guests int, selections []int) (models.Order, error) {
	if err := l.tables.Validate(tableID); err != nil {
		return models.Order{}, err
	}

	current, exists := l.orders[tableID]
	if exists && current.IsCompleted && !current.IsPaid {
		return models.Order{}, fmt.Errorf("%w: table %d", ErrOrderClosed, tableID)
	}

	if err := l.tables.CanSeat(tableID, guests); err != nil {
		return models.Order{}, err
	}

	items, err := l.catalog.Resolve(selections)
	if err != nil {
		return models.Order{}, err
	}

	if err := l.tables.Seat(tableID, guests); err != nil {
		return models.Order{}, err
	}

	if exists && current.IsPaid {
		l.history = append(l.history, current.Clone())
		exists = false
	}
	if !exists {
		current = &models.Order{TableID: tableID, PlacedAt: l.now()}
		l.orders[tableID] = current
	}
	current.Items = append(current.Items, items...)

	return current.Clone(), nil
}

// MarkCompleted flags the table's order as served. Calling it again has no
// further effect.
func (l *Ledger) MarkCompleted(tableID int) error {
	o, err := l.lookup(tableID)
	if err != nil {
		return err
	}
	o.IsCompleted = true
	return nil
}

// Bill previews the amount owed without changing any state.
func (l *Ledger) Bill(tableID int) (models.Bill, error) {
	o, err := l.payable(tableID)
	if err != nil {
		return models.Bill{}, err
	}
	return l.billing.Calculate(o.Items), nil
}

// RecordPayment computes the bill and hands it to confirm. Only an
// affirmative answer marks the order paid and frees the table; a nil or
// declining confirm leaves everything as it was.
func (l *Ledger) RecordPayment(tableID int, confirm func(models.Bill) bool) (models.Payment, error) {
	o, err := l.payable(tableID)
	if err != nil {
		return models.Payment{}, err
	}

	bill := l.billing.Calculate(o.Items)
	if confirm == nil || !confirm(bill) {
		return models.Payment{Order: o.Clone(), Bill: bill}, nil
	}

	if err := l.tables.ReleaseAll(tableID); err != nil {
		return models.Payment{}, err
	}
	o.IsPaid = true

	return models.Payment{Order: o.Clone(), Bill: bill, Paid: true}, nil
}

// AllSettled is true when every current order is completed and paid,
// including when no order was ever placed.
func (l *Ledger) AllSettled() bool {
	for _, o := range l.orders {
		if !o.Settled() {
			return false
		}
	}
	return true
}

func (l *Ledger) HasOrders() bool {
	return len(l.orders) > 0
}

func (l *Ledger) StatusOf(tableID int) models.OrderStatus {
	o, ok := l.orders[tableID]
	if !ok {
		return models.StatusNoOrder
	}
	return o.Status()
}

func (l *Ledger) Order(tableID int) (models.Order, error) {
	o, err := l.lookup(tableID)
	if err != nil {
		return models.Order{}, err
	}
	return o.Clone(), nil
}

// Orders returns the current order of every table that has one, by table id.
func (l *Ledger) Orders() []models.Order {
	out := make([]models.Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableID < out[j].TableID })
	return out
}

// History returns paid orders that were replaced by a later seating.
func (l *Ledger) History() []models.Order {
	out := make([]models.Order, len(l.history))
	for i, o := range l.history {
		out[i] = o.Clone()
	}
	return out
}

func (l *Ledger) lookup(tableID int) (*models.Order, error) {
	if err := l.tables.Validate(tableID); err != nil {
		return nil, err
	}
	o, ok := l.orders[tableID]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrNoOrder, tableID)
	}
	return o, nil
}

func (l *Ledger) payable(tableID int) (*models.Order, error) {
	o, err := l.lookup(tableID)
	if err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, fmt.Errorf("%w: table %d", ErrAlreadyPaid, tableID)
	}
	if !o.IsCompleted {
		return nil, fmt.Errorf("%w: table %d", ErrNotCompleted, tableID)
	}
	return o, nil
}
