package receipt

import (
	"fmt"
	"strings"
	"time"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/models"

	"github.com/shopspring/decimal"
)

const separator = "-------------------------"

// FileName is the on-disk name of a receipt, e.g. "Transaction#4821.txt".
func FileName(number int) string {
	return fmt.Sprintf("Transaction#%d.txt", number)
}

// QRFileName names the QR image written beside the text receipt.
func QRFileName(number int) string {
	return fmt.Sprintf("Transaction#%d.png", number)
}

// Build assembles the receipt document for a paid order.
func Build(number int, payment models.Payment, calc billing.Calculator, issuedAt time.Time) models.Receipt {
	lines := make([]models.ReceiptLine, len(payment.Order.Items))
	for i, item := range payment.Order.Items {
		lines[i] = models.ReceiptLine{Name: item.Name, Price: item.Price}
	}
	return models.Receipt{
		Number:   number,
		TableID:  payment.Order.TableID,
		Lines:    lines,
		Bill:     payment.Bill,
		TaxRate:  calc.TaxRate,
		TipRate:  calc.TipRate,
		IssuedAt: issuedAt,
	}
}

// Render lays the receipt out line by line. Every amount carries two
// decimals.
func Render(r models.Receipt) []string {
	out := make([]string, 0, len(r.Lines)+8)
	out = append(out, fmt.Sprintf("*** RECEIPT FOR TABLE %d ***", r.TableID), separator)
	for _, line := range r.Lines {
		out = append(out, fmt.Sprintf("%s - $%s", line.Name, billing.Money(decimal.NewFromInt(int64(line.Price)))))
	}
	out = append(out,
		separator,
		fmt.Sprintf("Subtotal: $%s", billing.Money(r.Bill.SubtotalAmount())),
		fmt.Sprintf("Tip (%s): $%s", billing.Percent(r.TipRate), billing.Money(r.Bill.Tip)),
		fmt.Sprintf("Tax (%s): $%s", billing.Percent(r.TaxRate), billing.Money(r.Bill.Tax)),
		fmt.Sprintf("Total: $%s", billing.Money(r.Bill.Total)),
	)
	return out
}

func Text(r models.Receipt) string {
	return strings.Join(Render(r), "\n") + "\n"
}

// Record converts a receipt into its archived form.
func Record(r models.Receipt, fileName string) models.ReceiptRecord {
	return models.ReceiptRecord{
		Number:   r.Number,
		TableID:  r.TableID,
		Items:    len(r.Lines),
		Subtotal: r.Bill.Subtotal,
		Tax:      billing.Money(r.Bill.Tax),
		Tip:      billing.Money(r.Bill.Tip),
		Total:    billing.Money(r.Bill.Total),
		Body:     Text(r),
		FileName: fileName,
		IssuedAt: r.IssuedAt,
	}
}
