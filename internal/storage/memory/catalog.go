package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	categorydto "github.com/fekuna/omnipos-sales-service/internal/category/dto"
	discountdto "github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	inventorydto "github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	productdto "github.com/fekuna/omnipos-sales-service/internal/product/dto"
)

type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.store.write(ctx, func(d *state) error {
		stored := *c
		stored.Children = nil
		d.categories[c.ID] = stored
		return nil
	})
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var out *model.Category
	r.store.read(ctx, func(d *state) {
		if c, ok := d.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context, f *categorydto.CategoryFilters) ([]model.Category, int, error) {
	var items []model.Category
	r.store.read(ctx, func(d *state) {
		for _, c := range d.categories {
			if f.ParentID != nil {
				if *f.ParentID == "" && c.ParentID != nil {
					continue
				}
				if *f.ParentID != "" && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
					continue
				}
			}
			if f.IsActive != nil && c.IsActive != *f.IsActive {
				continue
			}
			items = append(items, c)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].Name < items[j].Name
	})
	return page(items, f.Params)
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.store.write(ctx, func(d *state) error {
		if _, ok := d.categories[c.ID]; !ok {
			return nil
		}
		stored := *c
		stored.Children = nil
		d.categories[c.ID] = stored
		return nil
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *state) error {
		delete(d.categories, id)
		for k, c := range d.categories {
			if c.ParentID != nil && *c.ParentID == id {
				c.ParentID = nil
				d.categories[k] = c
			}
		}
		for k, p := range d.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				d.products[k] = p
			}
		}
		return nil
	})
}

type ProductRepository struct {
	store *Store
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	return r.store.write(ctx, func(d *state) error {
		if err := productUnique(d, p); err != nil {
			return err
		}
		stored := *p
		stored.Category = nil
		d.products[p.ID] = stored
		return nil
	})
}

func productUnique(d *state, p *model.Product) error {
	for _, other := range d.products {
		if other.ID == p.ID {
			continue
		}
		if other.SKU == p.SKU {
			return uniqueViolation("products_sku_key")
		}
		if p.Barcode != nil && other.Barcode != nil && *p.Barcode == *other.Barcode {
			return uniqueViolation("products_barcode_key")
		}
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var out *model.Product
	r.store.read(ctx, func(d *state) {
		if p, ok := d.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	out := []model.Product{}
	r.store.read(ctx, func(d *state) {
		seen := map[string]bool{}
		for _, id := range ids {
			if p, ok := d.products[id]; ok && !seen[id] {
				seen[id] = true
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, f *productdto.ProductFilters) ([]model.Product, int, error) {
	search := strings.ToLower(f.SearchQuery)
	var items []model.Product
	r.store.read(ctx, func(d *state) {
		for _, p := range d.products {
			if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
				continue
			}
			if f.IsActive != nil && p.IsActive != *f.IsActive {
				continue
			}
			if search != "" && !matchesProduct(p, search) {
				continue
			}
			items = append(items, p)
		}
	})

	desc := f.SortBy == "" || strings.ToLower(f.SortOrder) != "asc"
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less bool
		switch f.SortBy {
		case "name":
			less = a.Name < b.Name
		case "price":
			less = a.SalePrice.LessThan(b.SalePrice)
		case "stock":
			less = a.Stock < b.Stock
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if desc {
			return !less && !equalKey(f.SortBy, a, b)
		}
		return less
	})
	return page(items, f.Params)
}

func equalKey(sortBy string, a, b model.Product) bool {
	switch sortBy {
	case "name":
		return a.Name == b.Name
	case "price":
		return a.SalePrice.Equal(b.SalePrice)
	case "stock":
		return a.Stock == b.Stock
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func matchesProduct(p model.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.SKU), search) {
		return true
	}
	return p.Barcode != nil && strings.Contains(strings.ToLower(*p.Barcode), search)
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	return r.store.write(ctx, func(d *state) error {
		cur, ok := d.products[p.ID]
		if !ok {
			return nil
		}
		if err := productUnique(d, p); err != nil {
			return err
		}
		stored := *p
		stored.Category = nil
		stored.Stock = cur.Stock
		stored.ReservedStock = cur.ReservedStock
		stored.CreatedAt = cur.CreatedAt
		d.products[p.ID] = stored
		return nil
	})
}

func (r *ProductRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	unique := true
	r.store.read(ctx, func(d *state) {
		for _, p := range d.products {
			if p.SKU == sku && p.ID != excludeID {
				unique = false
				return
			}
		}
	})
	return unique, nil
}

func (r *ProductRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	if barcode == "" {
		return true, nil
	}
	unique := true
	r.store.read(ctx, func(d *state) {
		for _, p := range d.products {
			if p.Barcode != nil && *p.Barcode == barcode && p.ID != excludeID {
				unique = false
				return
			}
		}
	})
	return unique, nil
}

type InventoryRepository struct {
	store *Store
}

func (r *InventoryRepository) GetProductForUpdate(ctx context.Context, productID string) (*model.Product, error) {
	return r.store.Products().FindByID(ctx, productID)
}

func (r *InventoryRepository) UpdateStock(ctx context.Context, p *model.Product) error {
	if p.Stock < 0 || p.ReservedStock < 0 {
		return fmt.Errorf("product %s: stock check constraint violated", p.ID)
	}
	return r.store.write(ctx, func(d *state) error {
		cur, ok := d.products[p.ID]
		if !ok {
			return nil
		}
		cur.Stock = p.Stock
		cur.ReservedStock = p.ReservedStock
		cur.UpdatedAt = p.UpdatedAt
		d.products[p.ID] = cur
		return nil
	})
}

func (r *InventoryRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	return r.store.write(ctx, func(d *state) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *InventoryRepository) ListMovements(ctx context.Context, f *inventorydto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	r.store.read(ctx, func(d *state) {
		// newest first; insertion order breaks ties
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.MovementType != "" && string(m.MovementType) != f.MovementType {
				continue
			}
			items = append(items, m)
		}
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return page(items, f.Params)
}

func (r *InventoryRepository) MovementExists(ctx context.Context, productID string, mt model.MovementType, referenceType, referenceID string) (bool, error) {
	exists := false
	r.store.read(ctx, func(d *state) {
		for _, m := range d.movements {
			if m.ProductID == productID && m.MovementType == mt &&
				deref(m.ReferenceType) == referenceType && deref(m.ReferenceID) == referenceID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (r *InventoryRepository) ListLowStock(ctx context.Context, p pagination.Params) ([]model.Product, int, error) {
	var items []model.Product
	r.store.read(ctx, func(d *state) {
		for _, prod := range d.products {
			if prod.IsActive && prod.Available() <= prod.MinStock {
				items = append(items, prod)
			}
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Available() != items[j].Available() {
			return items[i].Available() < items[j].Available()
		}
		return items[i].Name < items[j].Name
	})
	return page(items, p)
}

func (r *InventoryRepository) RecordedReservations(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	r.store.read(ctx, func(d *state) {
		for _, p := range d.products {
			if p.ReservedStock > 0 {
				out[p.ID] = p.ReservedStock
			}
		}
	})
	return out, nil
}

func (r *InventoryRepository) OpenReservations(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	r.store.read(ctx, func(d *state) {
		for _, sp := range d.soldProducts {
			if sp.OwnerType != model.OwnerAccountHolding {
				continue
			}
			ah, ok := d.holdings[sp.OwnerID]
			if !ok || ah.Type != model.OperationHolding || ah.Status == model.StatusPaid {
				continue
			}
			out[sp.ProductID] += sp.Quantity
		}
	})
	return out, nil
}

type DiscountRepository struct {
	store *Store
}

func (r *DiscountRepository) Create(ctx context.Context, disc *model.Discount) error {
	return r.store.write(ctx, func(d *state) error {
		d.discounts[disc.ID] = *disc
		return nil
	})
}

func (r *DiscountRepository) FindByID(ctx context.Context, id string) (*model.Discount, error) {
	var out *model.Discount
	r.store.read(ctx, func(d *state) {
		if disc, ok := d.discounts[id]; ok {
			out = &disc
		}
	})
	return out, nil
}

func (r *DiscountRepository) FindAll(ctx context.Context, f *discountdto.DiscountFilters) ([]model.Discount, int, error) {
	var items []model.Discount
	r.store.read(ctx, func(d *state) {
		for _, disc := range d.discounts {
			if f.ProductID != "" && (disc.ProductID == nil || *disc.ProductID != f.ProductID) {
				continue
			}
			if f.IsActive != nil && disc.IsActive != *f.IsActive {
				continue
			}
			items = append(items, disc)
		}
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return page(items, f.Params)
}

func (r *DiscountRepository) Update(ctx context.Context, disc *model.Discount) error {
	return r.store.write(ctx, func(d *state) error {
		if _, ok := d.discounts[disc.ID]; ok {
			d.discounts[disc.ID] = *disc
		}
		return nil
	})
}

func (r *DiscountRepository) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *state) error {
		delete(d.discounts, id)
		return nil
	})
}

// page applies limit/offset the way the SQL repositories do and returns the full count.
func page[T any](items []T, p pagination.Params) ([]T, int, error) {
	total := len(items)
	if p.Limit <= 0 {
		if items == nil {
			items = []T{}
		}
		return items, total, nil
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return pagination.Slice(items, p), total, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
