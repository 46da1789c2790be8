package dto

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/pagination"
)

type SaleFilters struct {
	CustomerID string
	From       *time.Time
	To         *time.Time
	pagination.Params
}
