package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ms-restaurant/internal/billing"
	"ms-restaurant/internal/models"

	"github.com/shopspring/decimal"
)

type ReceiptLister interface {
	ListReceipts(ctx context.Context, tableID int) ([]models.ReceiptRecord, error)
}

// Service aggregates archived receipts into sales figures.
type Service struct {
	Store ReceiptLister
}

func NewService(store ReceiptLister) *Service {
	return &Service{Store: store}
}

// SalesReport is the aggregate over every archived receipt.
type SalesReport struct {
	Receipts     int                 `json:"receipts"`
	ItemsSold    int                 `json:"items_sold"`
	Subtotal     int                 `json:"subtotal"`
	TotalTax     string              `json:"total_tax"`
	TotalTips    string              `json:"total_tips"`
	TotalRevenue string              `json:"total_revenue"`
	AverageBill  string              `json:"average_bill"`
	ByTable      []TableSalesMetrics `json:"by_table"`
	DailySales   []DailySalesMetrics `json:"daily_sales"`
}

type TableSalesMetrics struct {
	TableID   int    `json:"table_id"`
	Receipts  int    `json:"receipts"`
	ItemsSold int    `json:"items_sold"`
	Revenue   string `json:"revenue"`
}

type DailySalesMetrics struct {
	Date     string `json:"date"`
	Receipts int    `json:"receipts"`
	Revenue  string `json:"revenue"`
}

type totals struct {
	receipts int
	items    int
	revenue  decimal.Decimal
}

// GetSalesReport sums the archive. Amounts are stored as formatted strings
// and are added back up as decimals.
func (s *Service) GetSalesReport(ctx context.Context) (*SalesReport, error) {
	records, err := s.Store.ListReceipts(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	var (
		overall  totals
		subtotal int
		tax      = decimal.Zero
		tips     = decimal.Zero
		byTable  = map[int]*totals{}
		byDay    = map[string]*totals{}
	)
	overall.revenue = decimal.Zero

	for _, rec := range records {
		total, err := parseAmount(rec.Number, "total", rec.Total)
		if err != nil {
			return nil, err
		}
		recTax, err := parseAmount(rec.Number, "tax", rec.Tax)
		if err != nil {
			return nil, err
		}
		recTip, err := parseAmount(rec.Number, "tip", rec.Tip)
		if err != nil {
			return nil, err
		}

		overall.add(rec.Items, total)
		subtotal += rec.Subtotal
		tax = tax.Add(recTax)
		tips = tips.Add(recTip)

		bucket(byTable, rec.TableID).add(rec.Items, total)
		bucket(byDay, rec.IssuedAt.UTC().Format(time.DateOnly)).add(rec.Items, total)
	}

	report := &SalesReport{
		Receipts:     overall.receipts,
		ItemsSold:    overall.items,
		Subtotal:     subtotal,
		TotalTax:     billing.Money(tax),
		TotalTips:    billing.Money(tips),
		TotalRevenue: billing.Money(overall.revenue),
		AverageBill:  billing.Money(decimal.Zero),
		ByTable:      []TableSalesMetrics{},
		DailySales:   []DailySalesMetrics{},
	}
	if overall.receipts > 0 {
		report.AverageBill = billing.Money(overall.revenue.Div(decimal.NewFromInt(int64(overall.receipts))))
	}

	for tableID, t := range byTable {
		report.ByTable = append(report.ByTable, TableSalesMetrics{
			TableID:   tableID,
			Receipts:  t.receipts,
			ItemsSold: t.items,
			Revenue:   billing.Money(t.revenue),
		})
	}
	sort.Slice(report.ByTable, func(i, j int) bool { return report.ByTable[i].TableID < report.ByTable[j].TableID })

	for day, t := range byDay {
		report.DailySales = append(report.DailySales, DailySalesMetrics{
			Date:     day,
			Receipts: t.receipts,
			Revenue:  billing.Money(t.revenue),
		})
	}
	sort.Slice(report.DailySales, func(i, j int) bool { return report.DailySales[i].Date < report.DailySales[j].Date })

	return report, nil
}

func (t *totals) add(items int, amount decimal.Decimal) {
	t.receipts++
	t.items += items
	t.revenue = t.revenue.Add(amount)
}

func bucket[K comparable](m map[K]*totals, key K) *totals {
	t, ok := m[key]
	if !ok {
		t = &totals{revenue: decimal.Zero}
		m[key] = t
	}
	return t
}

func parseAmount(number int, field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("receipt #%d has invalid %s %q: %w", number, field, value, err)
	}
	return d, nil
}
