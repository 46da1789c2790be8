package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) GetProductForUpdate(ctx context.Context, productID string) (*model.Product, error) {
	q := database.Conn(ctx, r.DB)
	var p model.Product
	err := q.GetContext(ctx, &p, q.Rebind(`SELECT * FROM products WHERE id = ? FOR UPDATE`), productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) UpdateStock(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET stock = :stock,
            reserved_stock = :reserved_stock,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) LogMovement(ctx context.Context, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            id, product_id, movement_type, quantity,
            stock_before, stock_after, reserved_before, reserved_after,
            reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :movement_type, :quantity,
            :stock_before, :stock_after, :reserved_before, :reserved_after,
            :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, m)
	return err
}

func (r *SQLRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM inventory_movements"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var items []model.InventoryMovement
	if err := database.NamedSelect(ctx, q, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *SQLRepository) MovementExists(ctx context.Context, productID string, movementType model.MovementType, referenceType, referenceID string) (bool, error) {
	q := database.Conn(ctx, r.DB)
	query := `
        SELECT count(*) FROM inventory_movements
        WHERE product_id = ? AND movement_type = ? AND reference_type = ? AND reference_id = ?
    `
	var count int
	if err := q.GetContext(ctx, &count, q.Rebind(query), productID, movementType, referenceType, referenceID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *SQLRepository) ListLowStock(ctx context.Context, p pagination.Params) ([]model.Product, int, error) {
	q := database.Conn(ctx, r.DB)
	where := " WHERE is_active = ? AND stock - reserved_stock <= min_stock"

	var count int
	if err := q.GetContext(ctx, &count, q.Rebind("SELECT count(*) FROM products"+where), true); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM products" + where + " ORDER BY stock - reserved_stock ASC, name ASC LIMIT ? OFFSET ?"
	var products []model.Product
	if err := q.SelectContext(ctx, &products, q.Rebind(query), true, p.Limit, p.Offset()); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

type productQuantity struct {
	ProductID string `db:"product_id"`
	Quantity  int    `db:"quantity"`
}

func (r *SQLRepository) RecordedReservations(ctx context.Context) (map[string]int, error) {
	q := database.Conn(ctx, r.DB)
	var rows []productQuantity
	err := q.SelectContext(ctx, &rows, `SELECT id AS product_id, reserved_stock AS quantity FROM products WHERE reserved_stock > 0`)
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func (r *SQLRepository) OpenReservations(ctx context.Context) (map[string]int, error) {
	q := database.Conn(ctx, r.DB)
	query := `
        SELECT sp.product_id AS product_id, SUM(sp.quantity) AS quantity
        FROM sold_products sp
        JOIN account_holdings ah ON ah.id = sp.owner_id
        WHERE sp.owner_type = ? AND ah.type = ? AND ah.status <> ?
        GROUP BY sp.product_id
    `
	var rows []productQuantity
	err := q.SelectContext(ctx, &rows, q.Rebind(query), model.OwnerAccountHolding, model.OperationHolding, model.StatusPaid)
	if err != nil {
		return nil, err
	}
	return toMap(rows), nil
}

func toMap(rows []productQuantity) map[string]int {
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.ProductID] = row.Quantity
	}
	return out
}
