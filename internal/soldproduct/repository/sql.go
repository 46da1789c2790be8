package repository

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) CreateBatch(ctx context.Context, items []model.SoldProduct) error {
	if len(items) == 0 {
		return nil
	}
	query := `
        INSERT INTO sold_products (
            id, product_id, owner_type, owner_id, quantity, price_type,
            price, price_without_iva, iva, total, created_at
        )
        VALUES (
            :id, :product_id, :owner_type, :owner_id, :quantity, :price_type,
            :price, :price_without_iva, :iva, :total, :created_at
        )
    `
	q := database.Conn(ctx, r.DB)
	for i := range items {
		if _, err := q.NamedExecContext(ctx, query, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLRepository) ListByOwner(ctx context.Context, owner model.LineOwner) ([]model.SoldProduct, error) {
	q := database.Conn(ctx, r.DB)
	query := `
        SELECT * FROM sold_products
        WHERE owner_type = ? AND owner_id = ?
        ORDER BY created_at ASC, id ASC
    `
	items := []model.SoldProduct{}
	err := q.SelectContext(ctx, &items, q.Rebind(query), owner.OwnerType, owner.OwnerID)
	return items, err
}

func (r *SQLRepository) Reparent(ctx context.Context, from, to model.LineOwner) (int, error) {
	q := database.Conn(ctx, r.DB)
	query := `
        UPDATE sold_products
        SET owner_type = ?, owner_id = ?
        WHERE owner_type = ? AND owner_id = ?
    `
	res, err := q.ExecContext(ctx, q.Rebind(query), to.OwnerType, to.OwnerID, from.OwnerType, from.OwnerID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *SQLRepository) DeleteByOwner(ctx context.Context, owner model.LineOwner) error {
	q := database.Conn(ctx, r.DB)
	_, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM sold_products WHERE owner_type = ? AND owner_id = ?`), owner.OwnerType, owner.OwnerID)
	return err
}
