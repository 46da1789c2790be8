package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerKind names the entity a line item currently belongs to.
type OwnerKind string

const (
	OwnerAccountHolding OwnerKind = "ACCOUNT_HOLDING"
	OwnerSale           OwnerKind = "SALE"
	OwnerQuotation      OwnerKind = "QUOTATION"
)

// LineOwner is the single owner reference of a SoldProduct. Ownership moves
// from an account holding to a sale exactly once, at finalization.
type LineOwner struct {
	OwnerType OwnerKind `db:"owner_type" json:"ownerType"`
	OwnerID   string    `db:"owner_id" json:"ownerId"`
}

func HoldingOwner(id string) LineOwner {
	return LineOwner{OwnerType: OwnerAccountHolding, OwnerID: id}
}

func SaleOwner(id string) LineOwner {
	return LineOwner{OwnerType: OwnerSale, OwnerID: id}
}

// QuotationOwner owns priced lines that never reach the inventory ledger.
func QuotationOwner(id string) LineOwner {
	return LineOwner{OwnerType: OwnerQuotation, OwnerID: id}
}

// SoldProduct is a line item. Price, PriceWithoutIVA and IVA are per unit;
// Total is Price * Quantity.
type SoldProduct struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	LineOwner
	Quantity        int             `db:"quantity" json:"quantity"`
	PriceType       PriceType       `db:"price_type" json:"priceType"`
	Price           decimal.Decimal `db:"price" json:"price"`
	PriceWithoutIVA decimal.Decimal `db:"price_without_iva" json:"priceWithoutIva"`
	IVA             decimal.Decimal `db:"iva" json:"iva"`
	Total           decimal.Decimal `db:"total" json:"total"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	Product         *Product        `db:"-" json:"product,omitempty"`
}

// PricedLine prices qty units of p at the list price selected by t. The caller sets the
// line's id, owner and creation time.
func PricedLine(p *Product, qty int, t PriceType) (SoldProduct, error) {
	price, err := p.PriceFor(t)
	if err != nil {
		return SoldProduct{}, err
	}
	net, iva := SplitIVA(price)
	return SoldProduct{
		ProductID:       p.ID,
		Quantity:        qty,
		PriceType:       t,
		Price:           price,
		PriceWithoutIVA: net,
		IVA:             iva,
		Total:           price.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}
