package menu

import (
	"errors"
	"fmt"

	"ms-restaurant/internal/models"
)

var ErrInvalidSelection = errors.New("invalid menu selection")

// Catalog is the read-only, ordered list of menu items.
type Catalog struct {
	items []models.MenuItem
}

var defaultItems = []models.MenuItem{
	{Index: 1, Name: "Raw Fish", Price: 35},
	{Index: 2, Name: "Eggs", Price: 45},
	{Index: 3, Name: "Ham", Price: 38},
	{Index: 4, Name: "Biscuits", Price: 38},
	{Index: 5, Name: "Toast", Price: 38},
}

// Default returns the house menu.
func Default() *Catalog {
	c, _ := NewCatalog(defaultItems)
	return c
}

// NewCatalog builds a catalog from items whose indexes must run 1..N in
// order and whose prices must be non-negative.
func NewCatalog(items []models.MenuItem) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.New("catalog must contain at least one item")
	}
	for i, item := range items {
		if item.Index != i+1 {
			return nil, fmt.Errorf("item %q has index %d, want %d", item.Name, item.Index, i+1)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("item %q has negative price %d", item.Name, item.Price)
		}
	}
	return &Catalog{items: append([]models.MenuItem(nil), items...)}, nil
}

// Len is the number of items; valid selections are 1..Len.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of the catalog in menu order.
func (c *Catalog) Items() []models.MenuItem {
	return append([]models.MenuItem(nil), c.items...)
}

// Lookup resolves a 1-based selection.
func (c *Catalog) Lookup(index int) (models.MenuItem, error) {
	if index < 1 || index > len(c.items) {
		return models.MenuItem{}, fmt.Errorf("%w: %d (choose 1-%d)", ErrInvalidSelection, index, len(c.items))
	}
	return c.items[index-1], nil
}

// Resolve maps every selection to its item, failing on the first invalid one.
func (c *Catalog) Resolve(selections []int) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(selections))
	for _, sel := range selections {
		item, err := c.Lookup(sel)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
