package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID     *string         `db:"category_id" json:"categoryId"` // Nullable
	Brand          *string         `db:"brand" json:"brand"`
	SKU            string          `db:"sku" json:"sku"`
	Barcode        *string         `db:"barcode" json:"barcode"` // Nullable
	Name           string          `db:"name" json:"name"`
	Description    *string         `db:"description" json:"description"`
	SalePrice      decimal.Decimal `db:"sale_price" json:"salePrice"`
	WholesalePrice decimal.Decimal `db:"wholesale_price" json:"wholesalePrice"`
	TouristPrice   decimal.Decimal `db:"tourist_price" json:"touristPrice"`
	PurchasePrice  decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	Stock          int             `db:"stock" json:"stock"`
	ReservedStock  int             `db:"reserved_stock" json:"reservedStock"`
	MinStock       int             `db:"min_stock" json:"minStock"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	Category       *Category       `db:"-" json:"category,omitempty"` // Joined data
}

// Available is the stock not committed to open holdings.
func (p *Product) Available() int {
	return p.Stock - p.ReservedStock
}

// PriceType selects which list price a line item is sold at.
type PriceType string

const (
	PriceTypeSale      PriceType = "SALE"
	PriceTypeWholesale PriceType = "WHOLESALE"
	PriceTypeTourist   PriceType = "TOURIST"
)

func ParsePriceType(s string) (PriceType, error) {
	switch t := PriceType(s); t {
	case PriceTypeSale, PriceTypeWholesale, PriceTypeTourist:
		return t, nil
	default:
		return "", fmt.Errorf("invalid price type %q", s)
	}
}

// PriceFor resolves the unit price for t.
func (p *Product) PriceFor(t PriceType) (decimal.Decimal, error) {
	switch t {
	case PriceTypeSale:
		return p.SalePrice, nil
	case PriceTypeWholesale:
		return p.WholesalePrice, nil
	case PriceTypeTourist:
		return p.TouristPrice, nil
	default:
		return decimal.Zero, fmt.Errorf("invalid price type %q", t)
	}
}
