package cli_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/cli"
	"ms-restaurant/internal/console"
	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/menu"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/receipt"
	"ms-restaurant/internal/session"
	"ms-restaurant/internal/tables"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app *cli.App
	svc *session.Service
	out *bytes.Buffer
	dir string
}

func newHarness(t *testing.T, script ...string) *harness {
	t.Helper()
	dir := t.TempDir()

	registry, err := tables.NewRegistry(4, 4)
	require.NoError(t, err)
	issuer := receipt.NewIssuer(dir, billing.Default(), logger.Discard())
	issuer.Draw = func() int { return 4321 }

	svc := session.NewService(registry, menu.Default(), billing.Default(), issuer, nil, logger.Discard())
	out := &bytes.Buffer{}
	prompt := console.NewPrompter(strings.NewReader(strings.Join(script, "\n")+"\n"), out)

	return &harness{app: cli.NewApp(svc, prompt), svc: svc, out: out, dir: dir}
}

func TestFullServiceCycle(t *testing.T) {
	h := newHarness(t,
		"1", "1", "2", "2", "3", // table 1, two guests, Eggs and Ham
		"2", "1", // complete
		"3", "1", "y", // pay
		"4", // close
	)

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "--- MESSIJOE'S MAIN MENU ---")
	assert.Contains(t, out, "There are 4 seats available at this table.")
	assert.Contains(t, out, "2. Eggs - $45")
	assert.Contains(t, out, "Guest 2, enter item number: ")
	assert.Contains(t, out, "Order placed for table 1 successfully.")
	assert.Contains(t, out, "Table #1 status: awaiting completion")
	assert.Contains(t, out, "Order for table 1: *marked as complete*awaiting payment.")
	assert.Contains(t, out, "Subtotal: $83.00")
	assert.Contains(t, out, "Tax: $8.30")
	assert.Contains(t, out, "Tip: $16.60")
	assert.Contains(t, out, "Total: $107.90")

	path := filepath.Join(h.dir, "Transaction#4321.txt")
	assert.Contains(t, out, "Payment successful. Receipt saved to '"+path+"'.")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"*** RECEIPT FOR TABLE 1 ***",
		"-------------------------",
		"Eggs - $45.00",
		"Ham - $38.00",
		"-------------------------",
		"Subtotal: $83.00",
		"Tip (20%): $16.60",
		"Tax (10%): $8.30",
		"Total: $107.90",
	}, "\n")+"\n", string(body))
}

func TestPaymentCancelledKeepsSessionOpen(t *testing.T) {
	h := newHarness(t,
		"1", "3", "1", "5",
		"2", "3",
		"3", "3", "n",
		"4",
	)

	err := h.app.Run(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	out := h.out.String()
	assert.Contains(t, out, "Payment cancelled.")
	assert.Contains(t, out, "Cannot close - orders still pending.")
	assert.Equal(t, models.StatusAwaitingPayment, h.svc.Ledger.StatusOf(3))

	seats, err := h.svc.AvailableSeats(3)
	require.NoError(t, err)
	assert.Equal(t, 3, seats)

	matches, err := filepath.Glob(filepath.Join(h.dir, "Transaction#*.txt"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSeatNotices(t *testing.T) {
	h := newHarness(t,
		"1", "2", "3", "1", "1", "1", // three guests at table 2
		"1", "2", "1", "4", // last seat
		"1", "2", // full
	)

	assert.ErrorIs(t, h.app.Run(context.Background()), io.EOF)

	out := h.out.String()
	assert.Contains(t, out, "Act quickly! Only 1 seat left at this table.")
	assert.Contains(t, out, "Sorry! Table 2 is full.")
	order, err := h.svc.Ledger.Order(2)
	require.NoError(t, err)
	assert.Len(t, order.Items, 4)
}

func TestPayBeforeComplete(t *testing.T) {
	h := newHarness(t,
		"1", "1", "1", "1",
		"3", "1",
		"2", "4",
	)

	assert.ErrorIs(t, h.app.Run(context.Background()), io.EOF)

	out := h.out.String()
	assert.Contains(t, out, "Order for Table 1 is not completed yet!")
	assert.Contains(t, out, "No order found for Table 4.")
	assert.NotContains(t, out, "Confirm payment?")
}

func TestEmptySessionCloses(t *testing.T) {
	h := newHarness(t, "9", "2", "5", "4")

	require.NoError(t, h.app.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Invalid input. Try again.")
	assert.Contains(t, out, "No pending orders / all have been completed and paid.")
	assert.Contains(t, out, "Table #4 status: no order (0/4 seated)")
	assert.Contains(t, out, "4. Close the Restaurant")
	assert.Contains(t, out, "Goodbye!")
}
