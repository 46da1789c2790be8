package dto

import (
	holdingdto "github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
)

type QuotationFilters struct {
	CustomerID string
	Status     string
	pagination.Params
}

type CreateQuotationInput struct {
	CustomerID string
	UserID     string
	// ValidDays defaults to DefaultValidDays when zero.
	ValidDays int
	Products  []holdingdto.LineItemInput
}

type ConvertQuotationInput struct {
	// Type is the operation opened for the quoted lines: ACCOUNT or HOLDING.
	Type   string
	UserID string
}

const DefaultValidDays = 15
