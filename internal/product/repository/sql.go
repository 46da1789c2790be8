package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, category_id, brand, sku, barcode, name, description,
            sale_price, wholesale_price, tourist_price, purchase_price,
            stock, reserved_stock, min_stock, is_active, created_at, updated_at
        )
        VALUES (
            :id, :category_id, :brand, :sku, :barcode, :name, :description,
            :sale_price, :wholesale_price, :tourist_price, :purchase_price,
            :stock, :reserved_stock, :min_stock, :is_active, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	q := database.Conn(ctx, r.DB)
	var product model.Product
	err := q.GetContext(ctx, &product, q.Rebind(`SELECT * FROM products WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *SQLRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	q := database.Conn(ctx, r.DB)
	var products []model.Product
	err = q.SelectContext(ctx, &products, q.Rebind(query), args...)
	return products, err
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		// LOWER/LIKE instead of ILIKE so the query runs on mysql too
		conditions = append(conditions, "(LOWER(name) LIKE :search OR LOWER(sku) LIKE :search OR LOWER(barcode) LIKE :search)")
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM products"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY " + orderBy(f)
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var products []model.Product
	if err := database.NamedSelect(ctx, q, &products, query, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func orderBy(f *dto.ProductFilters) string {
	if f.SortBy == "" {
		return "created_at DESC"
	}

	// whitelist to keep user input out of the statement
	col := "created_at"
	switch f.SortBy {
	case "name":
		col = "name"
	case "price":
		col = "sale_price"
	case "stock":
		col = "stock"
	}
	if strings.ToLower(f.SortOrder) == "asc" {
		return col + " ASC"
	}
	return col + " DESC"
}

func (r *SQLRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            brand = :brand,
            sku = :sku,
            barcode = :barcode,
            name = :name,
            description = :description,
            sale_price = :sale_price,
            wholesale_price = :wholesale_price,
            tourist_price = :tourist_price,
            purchase_price = :purchase_price,
            min_stock = :min_stock,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	return r.isUnique(ctx, "sku", sku, excludeID)
}

func (r *SQLRepository) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	if barcode == "" {
		return true, nil
	}
	return r.isUnique(ctx, "barcode", barcode, excludeID)
}

func (r *SQLRepository) isUnique(ctx context.Context, column, value, excludeID string) (bool, error) {
	q := database.Conn(ctx, r.DB)
	query := `SELECT count(*) FROM products WHERE ` + column + ` = ?`
	args := []interface{}{value}
	if excludeID != "" {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), args...); err != nil {
		return false, err
	}
	return count == 0, nil
}
