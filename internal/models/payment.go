package models

import (
	"github.com/shopspring/decimal"
)

// Bill is the computed amount owed for one order. Amounts keep full
// precision; rounding to cents happens only when formatting.
type Bill struct {
	Subtotal int             `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
	Total    decimal.Decimal `json:"total"`
}

func (b Bill) SubtotalAmount() decimal.Decimal {
	return decimal.NewFromInt(int64(b.Subtotal))
}

// Payment is the outcome of a payment attempt. Paid is false when the
// operator declined the confirmation.
type Payment struct {
	Order Order `json:"order"`
	Bill  Bill  `json:"bill"`
	Paid  bool  `json:"paid"`
}
