package discount

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type UseCase interface {
	CreateDiscount(ctx context.Context, input *dto.DiscountInput) (*model.Discount, error)
	GetDiscount(ctx context.Context, id string) (*model.Discount, error)
	ListDiscounts(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, int, error)
	UpdateDiscount(ctx context.Context, id string, input *dto.DiscountInput) (*model.Discount, error)
	DeleteDiscount(ctx context.Context, id string) error
	// CalculateDiscount prices quantity units at unitPrice under the discount, as of now.
	CalculateDiscount(ctx context.Context, id string, input *dto.CalculateInput) (*Calculation, error)
}
