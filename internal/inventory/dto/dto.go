package dto

import (
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
)

type MovementFilters struct {
	ProductID    string
	MovementType string
	pagination.Params
}

// ReservedDrift is a product whose recorded reserved stock differs from its open holdings.
type ReservedDrift struct {
	ProductID string `json:"productId"`
	Recorded  int    `json:"recorded"`
	Expected  int    `json:"expected"`
}

type AdjustStockInput struct {
	ProductID      string
	QuantityChange int
	Reason         string
	MovementType   model.MovementType // adjustment, receipt or damaged
	ReferenceType  string
	ReferenceID    string
}

type ReceivedItem struct {
	ProductID string
	Quantity  int
}

type ReceiveGoodsInput struct {
	OrderID string
	Items   []ReceivedItem
}
