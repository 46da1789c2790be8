package dto

import "github.com/fekuna/omnipos-sales-service/internal/pagination"

type ProductFilters struct {
	CategoryID  string
	IsActive    *bool
	SearchQuery string // For name, sku, barcode search
	SortBy      string // name, price, created_at
	SortOrder   string // asc, desc
	pagination.Params
}
