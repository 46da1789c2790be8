package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	BaseModel
	CustomerID       string          `db:"customer_id" json:"customerId"`
	UserID           string          `db:"user_id" json:"userId"`
	AccountHoldingID *string         `db:"account_holding_id" json:"accountHoldingId"`
	Date             time.Time       `db:"date" json:"date"`
	TotalWithIVA     decimal.Decimal `db:"total_with_iva" json:"totalWithIva"`
	TotalWithoutIVA  decimal.Decimal `db:"total_without_iva" json:"totalWithoutIva"`
	TotalIVA         decimal.Decimal `db:"total_iva" json:"totalIva"`
	Paid             decimal.Decimal `db:"paid" json:"paid"`
	Products         []SoldProduct   `db:"-" json:"products"`
}
