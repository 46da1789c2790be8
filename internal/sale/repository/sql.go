package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (
            id, customer_id, user_id, account_holding_id, date,
            total_with_iva, total_without_iva, total_iva, paid, created_at, updated_at
        )
        VALUES (
            :id, :customer_id, :user_id, :account_holding_id, :date,
            :total_with_iva, :total_without_iva, :total_iva, :paid, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE id = ?`, id)
}

func (r *SQLRepository) FindByAccountHolding(ctx context.Context, accountHoldingID string) (*model.Sale, error) {
	return r.findOne(ctx, `SELECT * FROM sales WHERE account_holding_id = ?`, accountHoldingID)
}

func (r *SQLRepository) findOne(ctx context.Context, query, arg string) (*model.Sale, error) {
	q := database.Conn(ctx, r.DB)
	var s model.Sale
	if err := q.GetContext(ctx, &s, q.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.From != nil {
		conditions = append(conditions, "date >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "date < :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM sales"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM sales" + whereClause + " ORDER BY date DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var sales []model.Sale
	if err := database.NamedSelect(ctx, q, &sales, query, args); err != nil {
		return nil, 0, err
	}
	return sales, count, nil
}
