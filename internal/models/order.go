package models

import "time"

type OrderStatus int

const (
	StatusNoOrder OrderStatus = iota
	StatusAwaitingCompletion
	StatusAwaitingPayment
	StatusDone
)

func (s OrderStatus) String() string {
	switch s {
	case StatusAwaitingCompletion:
		return "awaiting completion"
	case StatusAwaitingPayment:
		return "awaiting payment"
	case StatusDone:
		return "all done"
	default:
		return "no order"
	}
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Order struct {
	TableID     int        `json:"table_id"`
	Items       []MenuItem `json:"items"`
	IsCompleted bool       `json:"is_completed"`
	IsPaid      bool       `json:"is_paid"`
	PlacedAt    time.Time  `json:"placed_at"`
}

// Status projects the completion and payment flags onto OrderStatus.
func (o Order) Status() OrderStatus {
	switch {
	case !o.IsCompleted:
		return StatusAwaitingCompletion
	case !o.IsPaid:
		return StatusAwaitingPayment
	default:
		return StatusDone
	}
}

// Settled reports whether the order is both completed and paid.
func (o Order) Settled() bool {
	return o.IsCompleted && o.IsPaid
}

// Clone returns a copy that does not share the items slice.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]MenuItem(nil), o.Items...)
	return c
}

type OrderRequest struct {
	TableID    int   `json:"table_id"`
	Guests     int   `json:"guests"`
	Selections []int `json:"selections"`
}
