package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationOpen      QuotationStatus = "OPEN"
	QuotationConverted QuotationStatus = "CONVERTED"
)

func ParseQuotationStatus(s string) (QuotationStatus, error) {
	switch st := QuotationStatus(s); st {
	case QuotationOpen, QuotationConverted:
		return st, nil
	default:
		return "", fmt.Errorf("invalid quotation status %q", s)
	}
}

// Quotation is a priced basket offered to a customer. It reserves nothing; converting it
// opens an account holding for the same lines.
type Quotation struct {
	BaseModel
	CustomerID       string          `db:"customer_id" json:"customerId"`
	UserID           string          `db:"user_id" json:"userId"`
	Date             time.Time       `db:"date" json:"date"`
	ValidUntil       time.Time       `db:"valid_until" json:"validUntil"`
	Total            decimal.Decimal `db:"total" json:"total"`
	Status           QuotationStatus `db:"status" json:"status"`
	AccountHoldingID *string         `db:"account_holding_id" json:"accountHoldingId"`
	Customer         *Customer       `db:"-" json:"customer,omitempty"`
	Products         []SoldProduct   `db:"-" json:"products"`
}

// Expired reports whether the quotation can no longer be accepted at t.
func (q *Quotation) Expired(t time.Time) bool {
	return t.After(q.ValidUntil)
}
