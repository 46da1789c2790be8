package payment

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/payment/dto"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	ListByAccountHolding(ctx context.Context, accountHoldingID string) ([]model.Payment, error)
	FindAll(ctx context.Context, filters *dto.PaymentFilters) ([]model.Payment, int, error)
	DeleteByAccountHolding(ctx context.Context, accountHoldingID string) error
	// Collected sums the payments recorded between from and to, both inclusive.
	Collected(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error)
}
