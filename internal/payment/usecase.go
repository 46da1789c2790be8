package payment

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/payment/dto"
)

type UseCase interface {
	// CreatePayment applies a payment to an account holding, settling and finalizing it
	// into a sale when nothing is left to pay.
	CreatePayment(ctx context.Context, input *dto.CreatePaymentInput) (*dto.PaymentResult, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListPayments(ctx context.Context, filters *dto.PaymentFilters) ([]model.Payment, int, error)
}
