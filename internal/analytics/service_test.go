package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ms-restaurant/internal/analytics"
	"ms-restaurant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListReceipts(ctx context.Context, tableID int) ([]models.ReceiptRecord, error) {
	args := m.Called(ctx, tableID)
	if recs, ok := args.Get(0).([]models.ReceiptRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func rec(number, table, items, subtotal int, tax, tip, total string, day int) models.ReceiptRecord {
	return models.ReceiptRecord{
		Number:   number,
		TableID:  table,
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      tip,
		Total:    total,
		IssuedAt: time.Date(2024, 5, day, 20, 0, 0, 0, time.UTC),
	}
}

func TestGetSalesReport(t *testing.T) {
	store := new(MockLister)
	store.On("ListReceipts", mock.Anything, 0).Return([]models.ReceiptRecord{
		rec(4821, 1, 2, 83, "8.30", "16.60", "107.90", 2),
		rec(1234, 2, 1, 35, "3.50", "7.00", "45.50", 1),
		rec(5555, 1, 1, 38, "3.80", "7.60", "49.40", 2),
	}, nil)

	report, err := analytics.NewService(store).GetSalesReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Receipts)
	assert.Equal(t, 4, report.ItemsSold)
	assert.Equal(t, 156, report.Subtotal)
	assert.Equal(t, "15.60", report.TotalTax)
	assert.Equal(t, "31.20", report.TotalTips)
	assert.Equal(t, "202.80", report.TotalRevenue)
	assert.Equal(t, "67.60", report.AverageBill)

	require.Len(t, report.ByTable, 2)
	assert.Equal(t, analytics.TableSalesMetrics{TableID: 1, Receipts: 2, ItemsSold: 3, Revenue: "157.30"}, report.ByTable[0])
	assert.Equal(t, analytics.TableSalesMetrics{TableID: 2, Receipts: 1, ItemsSold: 1, Revenue: "45.50"}, report.ByTable[1])

	require.Len(t, report.DailySales, 2)
	assert.Equal(t, "2024-05-01", report.DailySales[0].Date)
	assert.Equal(t, "157.30", report.DailySales[1].Revenue)
}

func TestGetSalesReportEmptyArchive(t *testing.T) {
	store := new(MockLister)
	store.On("ListReceipts", mock.Anything, 0).Return(nil, nil)

	report, err := analytics.NewService(store).GetSalesReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Receipts)
	assert.Equal(t, "0.00", report.TotalRevenue)
	assert.Equal(t, "0.00", report.AverageBill)
	assert.Empty(t, report.ByTable)
}

func TestGetSalesReportErrors(t *testing.T) {
	store := new(MockLister)
	store.On("ListReceipts", mock.Anything, 0).Return(nil, errors.New("db down")).Once()

	svc := analytics.NewService(store)
	_, err := svc.GetSalesReport(context.Background())
	assert.ErrorContains(t, err, "db down")

	store.On("ListReceipts", mock.Anything, 0).Return([]models.ReceiptRecord{
		rec(4821, 1, 2, 83, "8.30", "16.60", "lots", 2),
	}, nil)
	_, err = svc.GetSalesReport(context.Background())
	assert.ErrorContains(t, err, "receipt #4821 has invalid total")
}
