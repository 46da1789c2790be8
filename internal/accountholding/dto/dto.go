package dto

import "github.com/fekuna/omnipos-sales-service/internal/pagination"

type AccountHoldingFilters struct {
	CustomerID string
	Type       string
	Status     string
	pagination.Params
}

type LineItemInput struct {
	ProductID string
	Quantity  int
	PriceType string
}

type CreateAccountHoldingInput struct {
	CustomerID string
	UserID     string
	Type       string
	Status     string
	Products   []LineItemInput
}
