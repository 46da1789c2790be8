package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, d *model.Discount) error {
	query := `
        INSERT INTO discounts (
            id, name, type, value, buy_quantity, get_quantity, product_id,
            starts_at, ends_at, is_active, created_at, updated_at
        )
        VALUES (
            :id, :name, :type, :value, :buy_quantity, :get_quantity, :product_id,
            :starts_at, :ends_at, :is_active, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, d)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Discount, error) {
	q := database.Conn(ctx, r.DB)
	var d model.Discount
	if err := q.GetContext(ctx, &d, q.Rebind(`SELECT * FROM discounts WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.DiscountFilters) ([]model.Discount, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM discounts"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM discounts" + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var discounts []model.Discount
	if err := database.NamedSelect(ctx, q, &discounts, query, args); err != nil {
		return nil, 0, err
	}
	return discounts, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, d *model.Discount) error {
	query := `
        UPDATE discounts
        SET name = :name,
            type = :type,
            value = :value,
            buy_quantity = :buy_quantity,
            get_quantity = :get_quantity,
            product_id = :product_id,
            starts_at = :starts_at,
            ends_at = :ends_at,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, d)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	q := database.Conn(ctx, r.DB)
	_, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM discounts WHERE id = ?`), id)
	return err
}
