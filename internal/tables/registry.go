package tables

import (
	"errors"
	"fmt"

	"ms-restaurant/internal/models"
)

var (
	ErrInvalidTable     = errors.New("invalid table")
	ErrCapacityExceeded = errors.New("table capacity exceeded")
)

// Registry does capacity accounting for a fixed set of tables numbered
// 1..Count. It is owned by a single control loop and is not safe for
// concurrent use.
type Registry struct {
	tables []models.Table
}

func NewRegistry(qty, capacity int) (*Registry, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("table quantity must be positive, got %d", qty)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("table capacity must be positive, got %d", capacity)
	}
	tables := make([]models.Table, qty)
	for i := range tables {
		tables[i] = models.Table{ID: i + 1, Capacity: capacity}
	}
	return &Registry{tables: tables}, nil
}

func (r *Registry) Count() int {
	return len(r.tables)
}

// Validate reports ErrInvalidTable for ids outside 1..Count.
func (r *Registry) Validate(tableID int) error {
	if tableID < 1 || tableID > len(r.tables) {
		return fmt.Errorf("%w: %d (choose 1-%d)", ErrInvalidTable, tableID, len(r.tables))
	}
	return nil
}

func (r *Registry) Table(tableID int) (models.Table, error) {
	if err := r.Validate(tableID); err != nil {
		return models.Table{}, err
	}
	return r.tables[tableID-1], nil
}

// Tables returns a snapshot of every table in id order.
func (r *Registry) Tables() []models.Table {
	return append([]models.Table(nil), r.tables...)
}

func (r *Registry) AvailableSeats(tableID int) (int, error) {
	t, err := r.Table(tableID)
	if err != nil {
		return 0, err
	}
	return t.AvailableSeats(), nil
}

// CanSeat checks Seat's guards without changing occupancy.
func (r *Registry) CanSeat(tableID, guests int) error {
	available, err := r.AvailableSeats(tableID)
	if err != nil {
		return err
	}
	if guests <= 0 || guests > available {
		return fmt.Errorf("%w: table %d has %d seat(s) free, asked for %d", ErrCapacityExceeded, tableID, available, guests)
	}
	return nil
}

func (r *Registry) Seat(tableID, guests int) error {
	if err := r.CanSeat(tableID, guests); err != nil {
		return err
	}
	r.tables[tableID-1].SeatedGuests += guests
	return nil
}

// ReleaseAll empties the table so it can turn over.
func (r *Registry) ReleaseAll(tableID int) error {
	if err := r.Validate(tableID); err != nil {
		return err
	}
	r.tables[tableID-1].SeatedGuests = 0
	return nil
}
