package discount

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, d *model.Discount) error
	FindByID(ctx context.Context, id string) (*model.Discount, error)
	FindAll(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, int, error)
	Update(ctx context.Context, d *model.Discount) error
	Delete(ctx context.Context, id string) error
}
