package discount

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Calculation struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate applies d to quantity units at unitPrice. A discount that is inactive
// at the given time yields no reduction. The discount never exceeds the subtotal.
func Calculate(d *model.Discount, unitPrice decimal.Decimal, quantity int, at time.Time) Calculation {
	qty := decimal.NewFromInt(int64(quantity))
	subtotal := unitPrice.Mul(qty).Round(2)

	amount := decimal.Zero
	if d.ActiveAt(at) && quantity > 0 {
		switch d.Type {
		case model.DiscountPercentage:
			amount = subtotal.Mul(d.Value).Div(hundred)
		case model.DiscountFixed:
			amount = d.Value.Mul(qty)
		case model.DiscountBuyXGetY:
			if group := d.BuyQuantity + d.GetQuantity; group > 0 && d.GetQuantity > 0 {
				free := (quantity / group) * d.GetQuantity
				amount = unitPrice.Mul(decimal.NewFromInt(int64(free)))
			}
		case model.DiscountBundle:
			if d.BuyQuantity > 0 {
				bundles := decimal.NewFromInt(int64(quantity / d.BuyQuantity))
				regular := unitPrice.Mul(decimal.NewFromInt(int64(d.BuyQuantity)))
				amount = bundles.Mul(regular.Sub(d.Value))
			}
		}
	}

	amount = amount.Round(2)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return Calculation{
		Subtotal: subtotal,
		Discount: amount,
		Total:    subtotal.Sub(amount),
	}
}
