package cli

import (
	"context"
	"errors"
	"fmt"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/console"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/order"
	"ms-restaurant/internal/session"
	"ms-restaurant/internal/tables"
)

const (
	optionEnterOrder = iota + 1
	optionCompleteOrder
	optionPayBill
	optionClose
	optionStatus
)

// App is the interactive control loop. It is the only owner of the
// session, so nothing else touches tables or orders while it runs.
type App struct {
	Service *session.Service
	Prompt  *console.Prompter
	Name    string
}

func NewApp(svc *session.Service, prompt *console.Prompter) *App {
	return &App{Service: svc, Prompt: prompt, Name: "MESSIJOE'S"}
}

// Run serves the main menu until the restaurant is closed. It returns the
// prompter's error (io.EOF) when input runs out first.
func (a *App) Run(ctx context.Context) error {
	for {
		a.showMenuOptions()
		choice, err := a.Prompt.ReadBoundedInt(optionEnterOrder, optionStatus, "Choose an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case optionEnterOrder:
			err = a.placeOrder(ctx)
		case optionCompleteOrder:
			err = a.completeOrder(ctx)
		case optionPayBill:
			err = a.payOrder(ctx)
		case optionClose:
			if a.closeSession(ctx) {
				return nil
			}
		case optionStatus:
			a.showStatus()
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) showMenuOptions() {
	a.Prompt.Say("\n--- %s MAIN MENU ---", a.Name)
	a.Prompt.Say("1. Enter Order")
	if a.Service.Pending() {
		a.Prompt.Say("2. Complete Order")
		a.Prompt.Say("3. Calculate and Pay Bill")
	} else {
		a.Prompt.Say("4. Close the Restaurant")
	}
	a.Prompt.Say("5. Table Status")
}

func (a *App) showCatalog() {
	a.Prompt.Say("--- Menu ---")
	for _, item := range a.Service.Menu() {
		a.Prompt.Say("%d. %s - $%d", item.Index, item.Name, item.Price)
	}
}

func (a *App) placeOrder(ctx context.Context) error {
	qty := a.Service.Tables.Count()
	tableID, err := a.Prompt.ReadBoundedInt(1, qty, fmt.Sprintf("Enter table number (1-%d): ", qty))
	if err != nil {
		return err
	}

	if a.Service.Ledger.StatusOf(tableID) == models.StatusAwaitingPayment {
		a.Prompt.Warn("Order for table %d is completed and awaiting payment.", tableID)
		return nil
	}

	available, err := a.Service.AvailableSeats(tableID)
	if err != nil {
		a.Prompt.Warn("%v", err)
		return nil
	}
	if available <= 0 {
		a.Prompt.Warn("Sorry! Table %d is full.", tableID)
		return nil
	}
	a.seatNotice(available)

	guests, err := a.Prompt.ReadBoundedInt(1, available, "Enter number of guests to seat: ")
	if err != nil {
		return err
	}

	a.showCatalog()
	selections := make([]int, 0, guests)
	for i := 1; i <= guests; i++ {
		choice, err := a.Prompt.ReadBoundedInt(1, len(a.Service.Menu()), fmt.Sprintf("Guest %d, enter item number: ", i))
		if err != nil {
			return err
		}
		selections = append(selections, choice)
	}

	if _, err := a.Service.PlaceOrder(ctx, tableID, guests, selections); err != nil {
		a.Prompt.Warn("Could not place order for table %d: %v", tableID, err)
		return nil
	}
	a.Prompt.Say("Order placed for table %d successfully.", tableID)
	return nil
}

func (a *App) seatNotice(available int) {
	if available <= 2 {
		a.Prompt.Say("\nAct quickly! Only %d %s left at this table.\n", available, plural(available, "seat", "seats"))
		return
	}
	a.Prompt.Say("\nNotice:\nThere are %d seats available at this table.\n", available)
}

// pickPendingTable lists the open tables and asks for one. It returns 0
// when nothing is pending.
func (a *App) pickPendingTable(prompt string) (int, error) {
	if !a.Service.Pending() {
		a.Prompt.Say("No pending orders / all have been completed and paid.")
		return 0, nil
	}
	for _, st := range a.Service.QueryStatus() {
		if st.Status != models.StatusNoOrder {
			a.Prompt.Say("Table #%d status: %s", st.TableID, st.Status)
		}
	}
	return a.Prompt.ReadBoundedInt(1, a.Service.Tables.Count(), prompt)
}

func (a *App) completeOrder(ctx context.Context) error {
	tableID, err := a.pickPendingTable("Enter table number to complete order: ")
	if err != nil || tableID == 0 {
		return err
	}

	if err := a.Service.CompleteOrder(ctx, tableID); err != nil {
		a.explain(tableID, err)
		return nil
	}
	a.Prompt.Say("Order for table %d: *marked as complete*awaiting payment.\n", tableID)
	return nil
}

func (a *App) payOrder(ctx context.Context) error {
	tableID, err := a.pickPendingTable("Enter table number to pay: ")
	if err != nil || tableID == 0 {
		return err
	}

	var readErr error
	confirm := func(bill models.Bill) bool {
		a.Prompt.Say("Subtotal: $%s", billing.Money(bill.SubtotalAmount()))
		a.Prompt.Say("Tax: $%s", billing.Money(bill.Tax))
		a.Prompt.Say("Tip: $%s", billing.Money(bill.Tip))
		a.Prompt.Say("Total: $%s", billing.Money(bill.Total))
		yes, err := a.Prompt.ReadYesNo("Confirm payment? (y/n): ")
		readErr = err
		return err == nil && yes
	}

	issued, err := a.Service.PayOrder(ctx, tableID, confirm)
	if readErr != nil {
		return readErr
	}
	switch {
	case errors.Is(err, session.ErrReceiptNotSaved):
		a.Prompt.Warn("Payment successful, but the receipt could not be saved: %v", err)
	case err != nil:
		a.explain(tableID, err)
	case issued == nil:
		a.Prompt.Say("Payment cancelled.")
	default:
		a.Prompt.Say("Payment successful. Receipt saved to '%s'.", issued.Path)
	}
	return nil
}

func (a *App) closeSession(ctx context.Context) bool {
	summary, ok := a.Service.CloseSession(ctx)
	if !ok {
		a.Prompt.Warn("Cannot close - orders still pending.")
		return false
	}
	a.Prompt.Say("%d order(s) settled, revenue $%s.", summary.OrdersSettled, billing.Money(summary.Revenue))
	a.Prompt.Say("Goodbye!")
	return true
}

func (a *App) showStatus() {
	for _, st := range a.Service.QueryStatus() {
		a.Prompt.Say("Table #%d status: %s (%d/%d seated)", st.TableID, st.Status, st.SeatedGuests, st.Capacity)
	}
}

func (a *App) explain(tableID int, err error) {
	switch {
	case errors.Is(err, order.ErrNoOrder):
		a.Prompt.Warn("No order found for Table %d.", tableID)
	case errors.Is(err, order.ErrNotCompleted):
		a.Prompt.Warn("Order for Table %d is not completed yet!\nPlease complete the order before payment.", tableID)
	case errors.Is(err, order.ErrAlreadyPaid):
		a.Prompt.Warn("Order for Table %d is already paid.", tableID)
	case errors.Is(err, tables.ErrInvalidTable):
		a.Prompt.Warn("Table %d does not exist.", tableID)
	default:
		a.Prompt.Warn("%v", err)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
