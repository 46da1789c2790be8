package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/fekuna/omnipos-sales-service/internal/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const listCachePrefix = "products:list:"

// IndexMapping is the Elasticsearch mapping of the product search index.
const IndexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"brand": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"barcode": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"is_active": { "type": "boolean" },
			"sale_price": { "type": "double" },
			"created_at": { "type": "date" }
		}
	}
}`

// Options carries the optional backends of the product use case. Nil clients are skipped.
type Options struct {
	Cache    *cache.RedisClient
	CacheTTL time.Duration
	Search   *search.Client
	Index    string
}

type productUseCase struct {
	repo   product.Repository
	opts   Options
	clock  clock.Clock
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, opts Options, clk clock.Clock, log logger.ZapLogger) product.UseCase {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.Index == "" {
		opts.Index = "products"
	}
	return &productUseCase{
		repo:   repo,
		opts:   opts,
		clock:  clk,
		logger: log,
	}
}

type searchDoc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Description string    `json:"description,omitempty"`
	SKU         string    `json:"sku"`
	Barcode     string    `json:"barcode,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	SalePrice   float64   `json:"sale_price"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSearchDoc(p *model.Product) searchDoc {
	price, _ := p.SalePrice.Float64()
	return searchDoc{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       deref(p.Brand),
		Description: deref(p.Description),
		SKU:         p.SKU,
		Barcode:     deref(p.Barcode),
		CategoryID:  deref(p.CategoryID),
		IsActive:    p.IsActive,
		SalePrice:   price,
		CreatedAt:   p.CreatedAt,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validatePrices(input.Name, input.SKU, input.SalePrice, input.WholesalePrice, input.TouristPrice, input.PurchasePrice); err != nil {
		return nil, err
	}
	if input.Stock < 0 || input.MinStock < 0 {
		return nil, apperror.InvalidArgument("stock must not be negative")
	}
	if err := uc.checkUnique(ctx, input.SKU, input.Barcode, ""); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:     nilIfEmpty(input.CategoryID),
		Brand:          nilIfEmpty(input.Brand),
		SKU:            input.SKU,
		Barcode:        nilIfEmpty(input.Barcode),
		Name:           input.Name,
		Description:    nilIfEmpty(input.Description),
		SalePrice:      input.SalePrice,
		WholesalePrice: input.WholesalePrice,
		TouristPrice:   input.TouristPrice,
		PurchasePrice:  input.PurchasePrice,
		Stock:          input.Stock,
		MinStock:       input.MinStock,
		IsActive:       true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, apperror.Wrap(err, "failed to create product")
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.String("sku", p.SKU))

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), *p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get product")
	}
	if p == nil {
		return nil, apperror.NotFound("product not found")
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := uc.cacheKey(filters)
	if uc.opts.Cache != nil && cacheKey != "" {
		var hit cachedList
		if ok, err := uc.opts.Cache.GetJSON(ctx, cacheKey, &hit); err == nil && ok {
			return hit.Products, hit.Count, nil
		}
	}

	if filters.SearchQuery != "" && uc.opts.Search != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		// If ES fails, fall through to DB
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list products")
	}

	if uc.opts.Cache != nil && cacheKey != "" {
		if err := uc.opts.Cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Count: count}, uc.opts.CacheTTL); err != nil {
			uc.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}

	return products, count, nil
}

// searchElastic resolves matching ids in the index and reloads the rows so stock is current.
func (uc *productUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	filter := []map[string]interface{}{}
	if f.CategoryID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category_id": f.CategoryID}})
	}
	if f.IsActive != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"is_active": *f.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":     f.SearchQuery,
							"fields":    []string{"name^3", "brand", "description"},
							"fuzziness": "AUTO",
						},
					},
					{"term": map[string]interface{}{"sku": f.SearchQuery}},
					{"term": map[string]interface{}{"barcode": f.SearchQuery}},
				},
				"minimum_should_match": 1,
				"filter":               filter,
			},
		},
		"_source": false,
	}
	if f.Limit > 0 {
		q["from"] = f.Offset()
		q["size"] = f.Limit
	}

	res, err := uc.opts.Search.Search(ctx, uc.opts.Index, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	rows, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]model.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := validatePrices(input.Name, input.SKU, input.SalePrice, input.WholesalePrice, input.TouristPrice, input.PurchasePrice); err != nil {
		return nil, err
	}
	if input.MinStock < 0 {
		return nil, apperror.InvalidArgument("minStock must not be negative")
	}
	if err := uc.checkUnique(ctx, input.SKU, input.Barcode, p.ID); err != nil {
		return nil, err
	}

	p.CategoryID = nilIfEmpty(input.CategoryID)
	p.Brand = nilIfEmpty(input.Brand)
	p.SKU = input.SKU
	p.Barcode = nilIfEmpty(input.Barcode)
	p.Name = input.Name
	p.Description = nilIfEmpty(input.Description)
	p.SalePrice = input.SalePrice
	p.WholesalePrice = input.WholesalePrice
	p.TouristPrice = input.TouristPrice
	p.PurchasePrice = input.PurchasePrice
	p.MinStock = input.MinStock
	p.IsActive = input.IsActive
	p.UpdatedAt = uc.clock.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, apperror.Wrap(err, "failed to update product")
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), *p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return nil
	}

	p.IsActive = false
	p.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return apperror.Wrap(err, "failed to deactivate product")
	}

	go uc.invalidateProductCache(context.Background())
	if uc.opts.Search != nil {
		go func() {
			if err := uc.opts.Search.Delete(context.Background(), uc.opts.Index, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) checkUnique(ctx context.Context, sku, barcode, excludeID string) error {
	unique, err := uc.repo.IsSKUUnique(ctx, sku, excludeID)
	if err != nil {
		return apperror.Wrap(err, "failed to check sku")
	}
	if !unique {
		return apperror.Conflict("SKU already exists")
	}

	if barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, barcode, excludeID)
		if err != nil {
			return apperror.Wrap(err, "failed to check barcode")
		}
		if !unique {
			return apperror.Conflict("Barcode already exists")
		}
	}
	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p model.Product) {
	if uc.opts.Search == nil {
		return
	}
	if err := uc.opts.Search.Index(ctx, uc.opts.Index, p.ID, toSearchDoc(&p)); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) cacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data))
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.opts.Cache == nil {
		return
	}
	if err := uc.opts.Cache.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

// EnsureIndex creates the product search index when it is missing.
func EnsureIndex(ctx context.Context, es *search.Client, index string) error {
	return es.EnsureIndex(ctx, index, IndexMapping)
}

func validatePrices(name, sku string, prices ...decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return apperror.InvalidArgument("name is required")
	}
	if strings.TrimSpace(sku) == "" {
		return apperror.InvalidArgument("sku is required")
	}
	for _, p := range prices {
		if p.IsNegative() {
			return apperror.InvalidArgument("prices must not be negative")
		}
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
