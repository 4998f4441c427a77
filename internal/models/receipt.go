package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type ReceiptLine struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Receipt is the itemized document produced once a payment is confirmed.
type Receipt struct {
	Number   int             `json:"number"`
	TableID  int             `json:"table_id"`
	Lines    []ReceiptLine   `json:"lines"`
	Bill     Bill            `json:"bill"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	TipRate  decimal.Decimal `json:"tip_rate"`
	IssuedAt time.Time       `json:"issued_at"`
}

// ReceiptRecord is the archived form of a receipt.
type ReceiptRecord struct {
	bun.BaseModel `bun:"table:receipts"`

	Number   int       `bun:"number,pk" json:"number"`
	TableID  int       `bun:"table_id,notnull" json:"table_id"`
	Items    int       `bun:"items,notnull" json:"items"`
	Subtotal int       `bun:"subtotal,notnull" json:"subtotal"`
	Tax      string    `bun:"tax,notnull" json:"tax"`
	Tip      string    `bun:"tip,notnull" json:"tip"`
	Total    string    `bun:"total,notnull" json:"total"`
	Body     string    `bun:"body,notnull" json:"body"`
	FileName string    `bun:"file_name" json:"file_name"`
	IssuedAt time.Time `bun:"issued_at,notnull" json:"issued_at"`
}
