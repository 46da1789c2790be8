package discount

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	price := decimal.NewFromInt(10)

	tests := []struct {
		name     string
		discount model.Discount
		quantity int
		want     string
	}{
		{
			name:     "percentage",
			discount: model.Discount{Type: model.DiscountPercentage, Value: decimal.NewFromInt(15), IsActive: true},
			quantity: 3,
			want:     "4.50",
		},
		{
			name:     "fixed per unit",
			discount: model.Discount{Type: model.DiscountFixed, Value: decimal.NewFromInt(2), IsActive: true},
			quantity: 4,
			want:     "8.00",
		},
		{
			name:     "fixed capped at subtotal",
			discount: model.Discount{Type: model.DiscountFixed, Value: decimal.NewFromInt(25), IsActive: true},
			quantity: 2,
			want:     "20.00",
		},
		{
			name:     "buy 2 get 1",
			discount: model.Discount{Type: model.DiscountBuyXGetY, BuyQuantity: 2, GetQuantity: 1, IsActive: true},
			quantity: 7,
			want:     "20.00",
		},
		{
			name:     "bundle of 3 for 25",
			discount: model.Discount{Type: model.DiscountBundle, BuyQuantity: 3, Value: decimal.NewFromInt(25), IsActive: true},
			quantity: 7,
			want:     "10.00",
		},
		{
			name:     "bundle priced above regular yields nothing",
			discount: model.Discount{Type: model.DiscountBundle, BuyQuantity: 2, Value: decimal.NewFromInt(30), IsActive: true},
			quantity: 4,
			want:     "0.00",
		},
		{
			name:     "inactive",
			discount: model.Discount{Type: model.DiscountPercentage, Value: decimal.NewFromInt(50), IsActive: false},
			quantity: 1,
			want:     "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := Calculate(&tt.discount, price, tt.quantity, now)
			assert.Equal(t, tt.want, calc.Discount.StringFixed(2))
			assert.True(t, calc.Subtotal.Sub(calc.Discount).Equal(calc.Total))
		})
	}
}

func TestCalculateOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)
	d := model.Discount{Type: model.DiscountPercentage, Value: decimal.NewFromInt(10), IsActive: true, StartsAt: &start}

	calc := Calculate(&d, decimal.NewFromInt(100), 1, now)
	assert.True(t, calc.Discount.IsZero())
	assert.Equal(t, "100.00", calc.Total.StringFixed(2))

	calc = Calculate(&d, decimal.NewFromInt(100), 1, start.Add(time.Minute))
	assert.Equal(t, "10.00", calc.Discount.StringFixed(2))
}
