package inventory

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
)

type Repository interface {
	// GetProductForUpdate loads a product and locks its row until the surrounding transaction ends.
	GetProductForUpdate(ctx context.Context, productID string) (*model.Product, error)
	UpdateStock(ctx context.Context, p *model.Product) error

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
	MovementExists(ctx context.Context, productID string, movementType model.MovementType, referenceType, referenceID string) (bool, error)

	// ListLowStock returns products whose unreserved stock is at or below min_stock.
	ListLowStock(ctx context.Context, p pagination.Params) ([]model.Product, int, error)

	// RecordedReservations returns reserved_stock for every product holding a reservation.
	RecordedReservations(ctx context.Context) (map[string]int, error)
	// OpenReservations sums line item quantities of unpaid HOLDING account holdings per product.
	OpenReservations(ctx context.Context) (map[string]int, error)
}
