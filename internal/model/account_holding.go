package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OperationType distinguishes a layaway reservation from a credit sale.
type OperationType string

const (
	// OperationAccount deducts stock at creation; the balance is collected later.
	OperationAccount OperationType = "ACCOUNT"
	// OperationHolding only reserves stock until the holding is fully paid.
	OperationHolding OperationType = "HOLDING"
)

func ParseOperationType(s string) (OperationType, error) {
	switch t := OperationType(s); t {
	case OperationAccount, OperationHolding:
		return t, nil
	default:
		return "", fmt.Errorf("invalid operation type %q", s)
	}
}

type AccountHoldingStatus string

const (
	StatusPending AccountHoldingStatus = "PENDING"
	StatusPartial AccountHoldingStatus = "PARTIAL"
	StatusPaid    AccountHoldingStatus = "PAID"
)

func ParseAccountHoldingStatus(s string) (AccountHoldingStatus, error) {
	switch st := AccountHoldingStatus(s); st {
	case StatusPending, StatusPartial, StatusPaid:
		return st, nil
	default:
		return "", fmt.Errorf("invalid account holding status %q", s)
	}
}

// IsTerminal reports whether no further transition may leave st.
func (st AccountHoldingStatus) IsTerminal() bool {
	return st == StatusPaid
}

type AccountHolding struct {
	BaseModel
	CustomerID string               `db:"customer_id" json:"customerId"`
	UserID     string               `db:"user_id" json:"userId"`
	Date       time.Time            `db:"date" json:"date"`
	Total      decimal.Decimal      `db:"total" json:"total"`
	Paid       decimal.Decimal      `db:"paid" json:"paid"`
	ToPay      decimal.Decimal      `db:"to_pay" json:"toPay"`
	Type       OperationType        `db:"type" json:"type"`
	Status     AccountHoldingStatus `db:"status" json:"status"`
	SaleID     *string              `db:"sale_id" json:"saleId"`
	Customer   *Customer            `db:"-" json:"customer,omitempty"`
	Products   []SoldProduct        `db:"-" json:"products"`
	Payments   []Payment            `db:"-" json:"payments"`
}

// IsSettled reports whether nothing is left to pay.
func (a *AccountHolding) IsSettled() bool {
	return !a.ToPay.IsPositive()
}
