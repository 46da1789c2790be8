package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, q *model.Quotation) error {
	query := `
        INSERT INTO quotations (
            id, customer_id, user_id, date, valid_until, total,
            status, account_holding_id, created_at, updated_at
        )
        VALUES (
            :id, :customer_id, :user_id, :date, :valid_until, :total,
            :status, :account_holding_id, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, q)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Quotation, error) {
	return r.findOne(ctx, `SELECT * FROM quotations WHERE id = ?`, id)
}

func (r *SQLRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Quotation, error) {
	return r.findOne(ctx, `SELECT * FROM quotations WHERE id = ? FOR UPDATE`, id)
}

func (r *SQLRepository) findOne(ctx context.Context, query, id string) (*model.Quotation, error) {
	q := database.Conn(ctx, r.DB)
	var out model.Quotation
	if err := q.GetContext(ctx, &out, q.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.QuotationFilters) ([]model.Quotation, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM quotations"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM quotations" + whereClause + " ORDER BY date DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var items []model.Quotation
	if err := database.NamedSelect(ctx, q, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, q *model.Quotation) error {
	query := `
        UPDATE quotations
        SET status = :status,
            account_holding_id = :account_holding_id,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, q)
	return err
}
