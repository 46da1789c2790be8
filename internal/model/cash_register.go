package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "OPEN"
	CashSessionClosed CashSessionStatus = "CLOSED"
)

// CashMovementType is a manual cash entry; customer payments are counted separately.
type CashMovementType string

const (
	CashIn  CashMovementType = "IN"
	CashOut CashMovementType = "OUT"
)

func ParseCashMovementType(s string) (CashMovementType, error) {
	switch t := CashMovementType(s); t {
	case CashIn, CashOut:
		return t, nil
	default:
		return "", fmt.Errorf("invalid cash movement type %q", s)
	}
}

// Deviation grades the gap between counted and expected cash at close.
type Deviation string

const (
	DeviationNormal   Deviation = "NORMAL"
	DeviationWarning  Deviation = "WARNING"
	DeviationCritical Deviation = "CRITICAL"
)

// CashRegisterSession is one shift of the register from opening float to closing count.
// Expected, Counted, Difference and Deviation are set when the session closes.
type CashRegisterSession struct {
	BaseModel
	UserID        string            `db:"user_id" json:"userId"`
	OpeningAmount decimal.Decimal   `db:"opening_amount" json:"openingAmount"`
	Expected      *decimal.Decimal  `db:"expected_amount" json:"expectedAmount"`
	Counted       *decimal.Decimal  `db:"counted_amount" json:"countedAmount"`
	Difference    *decimal.Decimal  `db:"difference" json:"difference"`
	Deviation     *Deviation        `db:"deviation" json:"deviation"`
	Status        CashSessionStatus `db:"status" json:"status"`
	Notes         *string           `db:"notes" json:"notes"`
	OpenedAt      time.Time         `db:"opened_at" json:"openedAt"`
	ClosedAt      *time.Time        `db:"closed_at" json:"closedAt"`
	Movements     []CashMovement    `db:"-" json:"movements"`
}

// CashMovement is immutable; a mistake is corrected with an opposite entry.
type CashMovement struct {
	ID          string           `db:"id" json:"id"`
	SessionID   string           `db:"session_id" json:"sessionId"`
	Type        CashMovementType `db:"type" json:"type"`
	Amount      decimal.Decimal  `db:"amount" json:"amount"`
	Description string           `db:"description" json:"description"`
	CreatedBy   *string          `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// Signed returns the movement's effect on the drawer.
func (m CashMovement) Signed() decimal.Decimal {
	if m.Type == CashOut {
		return m.Amount.Neg()
	}
	return m.Amount
}
