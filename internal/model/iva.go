package model

import "github.com/shopspring/decimal"

// IVARate is the fixed VAT rate included in every price.
var IVARate = decimal.RequireFromString("0.13")

// SplitIVA separates a VAT-inclusive amount into its net part and the VAT,
// rounded to cents. net + iva always equals gross.
func SplitIVA(gross decimal.Decimal) (net, iva decimal.Decimal) {
	net = gross.Div(decimal.NewFromInt(1).Add(IVARate)).Round(2)
	iva = gross.Sub(net)
	return net, iva
}
