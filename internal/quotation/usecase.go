package quotation

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
)

type UseCase interface {
	// CreateQuotation prices the basket at current list prices without touching stock.
	CreateQuotation(ctx context.Context, input *dto.CreateQuotationInput) (*model.Quotation, error)
	GetQuotation(ctx context.Context, id string) (*model.Quotation, error)
	ListQuotations(ctx context.Context, filters *dto.QuotationFilters) ([]model.Quotation, int, error)
	// ConvertQuotation opens an account holding for the quoted lines and marks the
	// quotation converted. Expired and already converted quotations are rejected.
	ConvertQuotation(ctx context.Context, id string, input *dto.ConvertQuotationInput) (*model.AccountHolding, error)
}
