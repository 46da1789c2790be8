package soldproduct

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// Repository stores line items. Every item has exactly one owner; Reparent is the only
// way ownership changes.
type Repository interface {
	CreateBatch(ctx context.Context, items []model.SoldProduct) error
	ListByOwner(ctx context.Context, owner model.LineOwner) ([]model.SoldProduct, error)
	// Reparent moves every item owned by from to to and returns how many moved.
	Reparent(ctx context.Context, from, to model.LineOwner) (int, error)
	DeleteByOwner(ctx context.Context, owner model.LineOwner) error
}
