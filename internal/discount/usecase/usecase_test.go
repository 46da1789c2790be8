package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateUsesProductPrice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(ctx, &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		SKU:       "SKU-1",
		Name:      "Soda",
		SalePrice: decimal.NewFromInt(2),
		IsActive:  true,
	}))
	uc := NewDiscountUseCase(store.Discounts(), store.Products(), clock.NewFixed(time.Now()), logger.NewNop())

	d, err := uc.CreateDiscount(ctx, &dto.DiscountInput{
		Name:        "3x2 soda",
		Type:        "BUY_X_GET_Y",
		BuyQuantity: 2,
		GetQuantity: 1,
		ProductID:   "p1",
	})
	require.NoError(t, err)

	calc, err := uc.CalculateDiscount(ctx, d.ID, &dto.CalculateInput{ProductID: "p1", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, "14.00", calc.Subtotal.StringFixed(2))
	assert.Equal(t, "4.00", calc.Discount.StringFixed(2))
	assert.Equal(t, "10.00", calc.Total.StringFixed(2))

	_, err = uc.CalculateDiscount(ctx, d.ID, &dto.CalculateInput{ProductID: "other", Quantity: 1})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	_, err = uc.CalculateDiscount(ctx, d.ID, &dto.CalculateInput{ProductID: "p1", Quantity: 0})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))
}

func TestDiscountValidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	uc := NewDiscountUseCase(store.Discounts(), store.Products(), clock.NewSystem(), logger.NewNop())

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	tests := []struct {
		name  string
		input *dto.DiscountInput
		kind  apperror.Kind
	}{
		{"missing name", &dto.DiscountInput{Type: "FIXED", Value: decimal.NewFromInt(1)}, apperror.KindInvalidArgument},
		{"unknown type", &dto.DiscountInput{Name: "x", Type: "MYSTERY"}, apperror.KindInvalidArgument},
		{"percentage over 100", &dto.DiscountInput{Name: "x", Type: "PERCENTAGE", Value: decimal.NewFromInt(120)}, apperror.KindInvalidArgument},
		{"bundle of one", &dto.DiscountInput{Name: "x", Type: "BUNDLE", BuyQuantity: 1, Value: decimal.NewFromInt(5)}, apperror.KindInvalidArgument},
		{"inverted window", &dto.DiscountInput{Name: "x", Type: "FIXED", Value: decimal.NewFromInt(1), StartsAt: &start, EndsAt: &end}, apperror.KindInvalidArgument},
		{"unknown product", &dto.DiscountInput{Name: "x", Type: "FIXED", Value: decimal.NewFromInt(1), ProductID: "ghost"}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateDiscount(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}

	err := uc.DeleteDiscount(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
