package product

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// FindByIDs returns the products that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	// Update writes catalog fields only; stock columns belong to the inventory ledger.
	Update(ctx context.Context, product *model.Product) error

	// Check SKU/Barcode uniqueness
	IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error)
	IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error)
}
