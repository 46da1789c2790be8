package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID     string
	Brand          string
	SKU            string
	Barcode        string
	Name           string
	Description    string
	SalePrice      decimal.Decimal
	WholesalePrice decimal.Decimal
	TouristPrice   decimal.Decimal
	PurchasePrice  decimal.Decimal
	Stock          int
	MinStock       int
}

type UpdateProductInput struct {
	ID             string
	CategoryID     string
	Brand          string
	SKU            string
	Barcode        string
	Name           string
	Description    string
	SalePrice      decimal.Decimal
	WholesalePrice decimal.Decimal
	TouristPrice   decimal.Decimal
	PurchasePrice  decimal.Decimal
	MinStock       int
	IsActive       bool
}
