package inventory

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
)

const (
	RefAccountHolding = "account_holding"
	RefSale           = "sale"
	RefProviderOrder  = "provider_order"
	RefManual         = "manual"
)

// Reference ties a movement to the entity that caused it.
type Reference struct {
	Type string
	ID   string
}

// Ledger mutates stock and reserved stock. Each call joins the transaction in ctx
// when there is one, so a caller can make several calls atomic.
type Ledger interface {
	// Reserve increments reserved stock without checking availability.
	Reserve(ctx context.Context, productID string, quantity int, ref Reference) error
	// Release decrements reserved stock, floored at zero.
	Release(ctx context.Context, productID string, quantity int, ref Reference) error
	// Deduct removes sold units from stock; it fails when stock is short.
	Deduct(ctx context.Context, productID string, quantity int, ref Reference) error
	// Settle converts a reservation into a deduction: reserved and stock both drop.
	Settle(ctx context.Context, productID string, quantity int, ref Reference) error
}

type UseCase interface {
	Ledger
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error)
	// ReceiveGoods applies a provider delivery. Items already received for the order are skipped.
	ReceiveGoods(ctx context.Context, input *dto.ReceiveGoodsInput) (int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
	ListLowStock(ctx context.Context, p pagination.Params) ([]model.Product, int, error)
	// ReconcileReserved compares reserved stock with open holdings and, when apply is set, corrects it.
	ReconcileReserved(ctx context.Context, apply bool) ([]dto.ReservedDrift, error)
}
