package dto

import (
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/shopspring/decimal"
)

type SessionFilters struct {
	UserID string
	Status string
	pagination.Params
}

type OpenSessionInput struct {
	UserID        string
	OpeningAmount decimal.Decimal
}

type MovementInput struct {
	Type        string
	Amount      decimal.Decimal
	Description string
}

type CloseSessionInput struct {
	CountedAmount *decimal.Decimal
	Notes         string
}

// SessionReport breaks down the cash a session should hold.
type SessionReport struct {
	Session      *model.CashRegisterSession `json:"session"`
	Payments     decimal.Decimal            `json:"payments"`
	PaymentCount int                        `json:"paymentCount"`
	CashIn       decimal.Decimal            `json:"cashIn"`
	CashOut      decimal.Decimal            `json:"cashOut"`
	Expected     decimal.Decimal            `json:"expected"`
}
