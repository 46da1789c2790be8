package accountholding

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, ah *model.AccountHolding) error
	FindByID(ctx context.Context, id string) (*model.AccountHolding, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.AccountHolding, error)
	FindAll(ctx context.Context, filters *dto.AccountHoldingFilters) ([]model.AccountHolding, int, error)
	// Update writes the mutable balance columns: paid, to_pay, status and sale_id.
	Update(ctx context.Context, ah *model.AccountHolding) error
	Delete(ctx context.Context, id string) error
}
