package sale

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
)

// Finalizer turns a fully paid account holding into a sale. It joins the
// transaction in ctx so the payment that settles the holding commits with it.
type Finalizer interface {
	FinalizeAccountHolding(ctx context.Context, accountHoldingID string) (*model.Sale, error)
}

type UseCase interface {
	Finalizer
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
