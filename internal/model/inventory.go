package model

import "time"

type MovementType string

const (
	MovementReserve    MovementType = "reserve"
	MovementRelease    MovementType = "release"
	MovementSale       MovementType = "sale"
	MovementSettle     MovementType = "settle"
	MovementAdjustment MovementType = "adjustment"
	MovementReceipt    MovementType = "receipt"
	// MovementDamaged writes off broken, expired or lost units.
	MovementDamaged    MovementType = "damaged"
)

// InventoryMovement is one audited change to a product's stock or reserved stock.
type InventoryMovement struct {
	ID             string       `db:"id" json:"id"`
	ProductID      string       `db:"product_id" json:"productId"`
	MovementType   MovementType `db:"movement_type" json:"movementType"`
	Quantity       int          `db:"quantity" json:"quantity"`
	StockBefore    int          `db:"stock_before" json:"stockBefore"`
	StockAfter     int          `db:"stock_after" json:"stockAfter"`
	ReservedBefore int          `db:"reserved_before" json:"reservedBefore"`
	ReservedAfter  int          `db:"reserved_after" json:"reservedAfter"`
	ReferenceType  *string      `db:"reference_type" json:"referenceType"`
	ReferenceID    *string      `db:"reference_id" json:"referenceId"`
	Notes          string       `db:"notes" json:"notes"`
	CreatedBy      *string      `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
}
