package dto

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/shopspring/decimal"
)

type DiscountFilters struct {
	ProductID string
	IsActive  *bool
	pagination.Params
}

type DiscountInput struct {
	Name        string
	Type        string
	Value       decimal.Decimal
	BuyQuantity int
	GetQuantity int
	ProductID   string
	StartsAt    *time.Time
	EndsAt      *time.Time
	IsActive    *bool
}

type CalculateInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}
