package dto

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/shopspring/decimal"
)

type PaymentFilters struct {
	AccountHoldingID string
	CustomerID       string
	pagination.Params
}

type CreatePaymentInput struct {
	Amount           decimal.Decimal
	AccountHoldingID string
	CustomerID       string
	Date             *time.Time
}

// PaymentResult is the outcome of one payment. Change is the part of the tendered
// amount that exceeded the balance; it is never stored.
type PaymentResult struct {
	Payment        *model.Payment        `json:"payment"`
	AccountHolding *model.AccountHolding `json:"accountHolding"`
	Change         decimal.Decimal       `json:"change"`
	Sale           *model.Sale           `json:"sale,omitempty"`
}
