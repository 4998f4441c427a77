package models

// Table is a fixed seating unit. SeatedGuests never exceeds Capacity.
type Table struct {
	ID           int `json:"id"`
	Capacity     int `json:"capacity"`
	SeatedGuests int `json:"seated_guests"`
}

// AvailableSeats returns how many more guests fit at the table.
func (t Table) AvailableSeats() int {
	return t.Capacity - t.SeatedGuests
}

// TableStatus is one row of the floor overview.
type TableStatus struct {
	TableID      int         `json:"table_id"`
	Capacity     int         `json:"capacity"`
	SeatedGuests int         `json:"seated_guests"`
	Status       OrderStatus `json:"status"`
}
