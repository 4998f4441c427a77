package db

import (
	"context"
	"fmt"

	"ms-restaurant/internal/models"

	"github.com/uptrace/bun"
)

func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ReceiptRecord)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("create receipts table failed: %w", err)
	}

	_, err = db.NewCreateIndex().
		Model((*models.ReceiptRecord)(nil)).
		Index("receipts_table_id_idx").
		Column("table_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create receipts index failed: %w", err)
	}
	return nil
}
