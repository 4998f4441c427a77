package tables_test

import (
	"math/rand"
	"testing"

	"ms-restaurant/internal/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *tables.Registry {
	t.Helper()
	r, err := tables.NewRegistry(4, 4)
	require.NoError(t, err)
	return r
}

func TestNewRegistry(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, 4, r.Count())
	for i, tbl := range r.Tables() {
		assert.Equal(t, i+1, tbl.ID)
		assert.Equal(t, 4, tbl.Capacity)
		assert.Zero(t, tbl.SeatedGuests)
	}

	_, err := tables.NewRegistry(0, 4)
	assert.Error(t, err)
	_, err = tables.NewRegistry(4, 0)
	assert.Error(t, err)
}

func TestAvailableSeatsInvalidTable(t *testing.T) {
	r := newRegistry(t)
	for _, id := range []int{0, 5, -3} {
		_, err := r.AvailableSeats(id)
		assert.ErrorIs(t, err, tables.ErrInvalidTable)
	}
}

func TestSeatAndRelease(t *testing.T) {
	r := newRegistry(t)

	require.NoError(t, r.Seat(1, 2))
	seats, err := r.AvailableSeats(1)
	require.NoError(t, err)
	assert.Equal(t, 2, seats)

	require.NoError(t, r.Seat(1, 2))
	seats, _ = r.AvailableSeats(1)
	assert.Zero(t, seats)

	require.NoError(t, r.ReleaseAll(1))
	seats, _ = r.AvailableSeats(1)
	assert.Equal(t, 4, seats)
}

func TestSeatRejectsOverflow(t *testing.T) {
	r := newRegistry(t)
	require.NoError(t, r.Seat(2, 4))

	err := r.Seat(2, 1)
	assert.ErrorIs(t, err, tables.ErrCapacityExceeded)

	tbl, err := r.Table(2)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.SeatedGuests)
}

func TestSeatRejectsNonPositive(t *testing.T) {
	r := newRegistry(t)
	assert.ErrorIs(t, r.Seat(1, 0), tables.ErrCapacityExceeded)
	assert.ErrorIs(t, r.Seat(1, -2), tables.ErrCapacityExceeded)
	assert.ErrorIs(t, r.Seat(9, 1), tables.ErrInvalidTable)
	assert.ErrorIs(t, r.ReleaseAll(9), tables.ErrInvalidTable)
}

func TestTablesReturnsSnapshot(t *testing.T) {
	r := newRegistry(t)
	snap := r.Tables()
	snap[0].SeatedGuests = 3

	tbl, _ := r.Table(1)
	assert.Zero(t, tbl.SeatedGuests)
}

func TestOccupancyInvariantUnderRandomOperations(t *testing.T) {
	r := newRegistry(t)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		id := rng.Intn(6)
		if rng.Intn(4) == 0 {
			_ = r.ReleaseAll(id)
		} else {
			_ = r.Seat(id, rng.Intn(7)-1)
		}
		for _, tbl := range r.Tables() {
			require.GreaterOrEqual(t, tbl.SeatedGuests, 0)
			require.LessOrEqual(t, tbl.SeatedGuests, tbl.Capacity)
		}
	}
}
