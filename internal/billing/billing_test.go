package billing_test

import (
	"math/rand"
	"testing"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(prices ...int) []models.MenuItem {
	out := make([]models.MenuItem, len(prices))
	for i, p := range prices {
		out[i] = models.MenuItem{Index: i + 1, Name: "item", Price: p}
	}
	return out
}

func TestCalculateTwoGuests(t *testing.T) {
	bill := billing.Default().Calculate(items(45, 38))

	assert.Equal(t, 83, bill.Subtotal)
	assert.Equal(t, "8.30", billing.Money(bill.Tax))
	assert.Equal(t, "16.60", billing.Money(bill.Tip))
	assert.Equal(t, "107.90", billing.Money(bill.Total))
}

func TestCalculateTable(t *testing.T) {
	tests := []struct {
		name   string
		prices []int
		tax    string
		tip    string
		total  string
	}{
		{"empty order", nil, "0.00", "0.00", "0.00"},
		{"single toast", []int{38}, "3.80", "7.60", "49.40"},
		{"full table", []int{35, 45, 38, 38}, "15.60", "31.20", "202.80"},
		{"free items", []int{0, 0}, "0.00", "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := billing.Default().Calculate(items(tt.prices...))
			assert.Equal(t, tt.tax, billing.Money(bill.Tax))
			assert.Equal(t, tt.tip, billing.Money(bill.Tip))
			assert.Equal(t, tt.total, billing.Money(bill.Total))
		})
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	calc := billing.Default()
	in := items(35, 45, 38)

	first := calc.Calculate(in)
	second := calc.Calculate(in)

	assert.Equal(t, first.Subtotal, second.Subtotal)
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Tip.Equal(second.Tip))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestTotalIsExactSum(t *testing.T) {
	calc := billing.Default()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		prices := make([]int, rng.Intn(12))
		for j := range prices {
			prices[j] = rng.Intn(10000)
		}
		bill := calc.Calculate(items(prices...))
		sum := bill.SubtotalAmount().Add(bill.Tax).Add(bill.Tip)
		require.True(t, bill.Total.Equal(sum), "prices %v", prices)
	}
}

func TestNewCalculatorRejectsNegativeRates(t *testing.T) {
	_, err := billing.NewCalculator(decimal.NewFromFloat(-0.1), billing.DefaultTipRate)
	assert.Error(t, err)
	_, err = billing.FromFloats(0.1, -0.2)
	assert.Error(t, err)

	calc, err := billing.FromFloats(0.10, 0.20)
	require.NoError(t, err)
	assert.True(t, calc.TaxRate.Equal(billing.DefaultTaxRate))
	assert.True(t, calc.TipRate.Equal(billing.DefaultTipRate))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "10%", billing.Percent(billing.DefaultTaxRate))
	assert.Equal(t, "20%", billing.Percent(billing.DefaultTipRate))
	assert.Equal(t, "12.5%", billing.Percent(decimal.RequireFromString("0.125")))
}
