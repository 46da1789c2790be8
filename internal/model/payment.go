package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is immutable once written. Amount is what was actually applied.
type Payment struct {
	ID               string          `db:"id" json:"id"`
	AccountHoldingID string          `db:"account_holding_id" json:"accountHoldingId"`
	CustomerID       string          `db:"customer_id" json:"customerId"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Date             time.Time       `db:"date" json:"date"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
}
