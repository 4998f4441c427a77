package billing

import (
	"fmt"

	"ms-restaurant/internal/models"

	"github.com/shopspring/decimal"
)

var (
	DefaultTaxRate = decimal.RequireFromString("0.10")
	DefaultTipRate = decimal.RequireFromString("0.20")
)

// Calculator turns an order's items into a Bill. It holds no state beyond
// the rates, so the same items always produce the same Bill.
type Calculator struct {
	TaxRate decimal.Decimal
	TipRate decimal.Decimal
}

func NewCalculator(taxRate, tipRate decimal.Decimal) (Calculator, error) {
	if taxRate.IsNegative() {
		return Calculator{}, fmt.Errorf("tax rate must not be negative, got %s", taxRate)
	}
	if tipRate.IsNegative() {
		return Calculator{}, fmt.Errorf("tip rate must not be negative, got %s", tipRate)
	}
	return Calculator{TaxRate: taxRate, TipRate: tipRate}, nil
}

// FromFloats builds a calculator from configuration values such as 0.10.
func FromFloats(taxRate, tipRate float64) (Calculator, error) {
	return NewCalculator(decimal.NewFromFloat(taxRate), decimal.NewFromFloat(tipRate))
}

func Default() Calculator {
	return Calculator{TaxRate: DefaultTaxRate, TipRate: DefaultTipRate}
}

func (c Calculator) Calculate(items []models.MenuItem) models.Bill {
	subtotal := 0
	for _, item := range items {
		subtotal += item.Price
	}

	amount := decimal.NewFromInt(int64(subtotal))
	tax := amount.Mul(c.TaxRate)
	tip := amount.Mul(c.TipRate)

	return models.Bill{
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tip,
		Total:    amount.Add(tax).Add(tip),
	}
}

// Money renders an amount with exactly two decimals, e.g. "107.90".
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent renders a rate as a whole-number percentage label, e.g. "20%".
func Percent(rate decimal.Decimal) string {
	return rate.Shift(2).String() + "%"
}
