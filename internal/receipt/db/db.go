package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-restaurant/internal/models"

	"github.com/uptrace/bun"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type DB struct {
	Bun *bun.DB
}

// CreateReceipt inserts a record, replacing any earlier receipt with the
// same number the way the text file on disk is replaced.
func (d *DB) CreateReceipt(ctx context.Context, record models.ReceiptRecord) error {
	_, err := d.Bun.NewInsert().
		Model(&record).
		On("CONFLICT (number) DO UPDATE").
		Set("table_id = EXCLUDED.table_id").
		Set("items = EXCLUDED.items").
		Set("subtotal = EXCLUDED.subtotal").
		Set("tax = EXCLUDED.tax").
		Set("tip = EXCLUDED.tip").
		Set("total = EXCLUDED.total").
		Set("body = EXCLUDED.body").
		Set("file_name = EXCLUDED.file_name").
		Set("issued_at = EXCLUDED.issued_at").
		Exec(ctx)
	return err
}

func (d *DB) GetReceiptByNumber(ctx context.Context, number int) (*models.ReceiptRecord, error) {
	var record models.ReceiptRecord
	err := d.Bun.NewSelect().
		Model(&record).
		Where("number = ?", number).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: #%d", ErrReceiptNotFound, number)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListReceipts returns receipts newest first. tableID 0 means every table.
func (d *DB) ListReceipts(ctx context.Context, tableID int) ([]models.ReceiptRecord, error) {
	var records []models.ReceiptRecord
	q := d.Bun.NewSelect().Model(&records).OrderExpr("issued_at DESC, number DESC")
	if tableID > 0 {
		q = q.Where("table_id = ?", tableID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// Reserve claims a receipt number when no archived receipt holds it yet.
func (d *DB) Reserve(ctx context.Context, number int) (bool, error) {
	exists, err := d.Bun.NewSelect().
		Model((*models.ReceiptRecord)(nil)).
		Where("number = ?", number).
		Exists(ctx)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (d *DB) CountReceipts(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().Model((*models.ReceiptRecord)(nil)).Count(ctx)
}
