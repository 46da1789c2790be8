package dto

import "github.com/fekuna/omnipos-sales-service/internal/pagination"

type CustomerFilters struct {
	SearchQuery string // name, email or document number
	pagination.Params
}

type CreateCustomerInput struct {
	Name           string
	Email          string
	Phone          string
	DocumentNumber string
	Address        string
}
