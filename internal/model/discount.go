package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
	DiscountBuyXGetY   DiscountType = "BUY_X_GET_Y"
	DiscountBundle     DiscountType = "BUNDLE"
)

func ParseDiscountType(s string) (DiscountType, error) {
	switch t := DiscountType(s); t {
	case DiscountPercentage, DiscountFixed, DiscountBuyXGetY, DiscountBundle:
		return t, nil
	default:
		return "", fmt.Errorf("invalid discount type %q", s)
	}
}

type Discount struct {
	BaseModel
	Name        string          `db:"name" json:"name"`
	Type        DiscountType    `db:"type" json:"type"`
	Value       decimal.Decimal `db:"value" json:"value"`
	BuyQuantity int             `db:"buy_quantity" json:"buyQuantity"`
	GetQuantity int             `db:"get_quantity" json:"getQuantity"`
	ProductID   *string         `db:"product_id" json:"productId"`
	StartsAt    *time.Time      `db:"starts_at" json:"startsAt"`
	EndsAt      *time.Time      `db:"ends_at" json:"endsAt"`
	IsActive    bool            `db:"is_active" json:"isActive"`
}

// ActiveAt reports whether the discount applies at t.
func (d *Discount) ActiveAt(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.StartsAt != nil && t.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && t.After(*d.EndsAt) {
		return false
	}
	return true
}
