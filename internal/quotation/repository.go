package quotation

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
)

type Repository interface {
	Create(ctx context.Context, q *model.Quotation) error
	FindByID(ctx context.Context, id string) (*model.Quotation, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Quotation, error)
	FindAll(ctx context.Context, filters *dto.QuotationFilters) ([]model.Quotation, int, error)
	// Update writes status and account_holding_id.
	Update(ctx context.Context, q *model.Quotation) error
}
