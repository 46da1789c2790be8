package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/payment/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
        INSERT INTO payments (id, account_holding_id, customer_id, amount, date, created_at)
        VALUES (:id, :account_holding_id, :customer_id, :amount, :date, :created_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	q := database.Conn(ctx, r.DB)
	var p model.Payment
	if err := q.GetContext(ctx, &p, q.Rebind(`SELECT * FROM payments WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) ListByAccountHolding(ctx context.Context, accountHoldingID string) ([]model.Payment, error) {
	q := database.Conn(ctx, r.DB)
	payments := []model.Payment{}
	err := q.SelectContext(ctx, &payments,
		q.Rebind(`SELECT * FROM payments WHERE account_holding_id = ? ORDER BY date ASC, created_at ASC`),
		accountHoldingID)
	return payments, err
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.PaymentFilters) ([]model.Payment, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.AccountHoldingID != "" {
		conditions = append(conditions, "account_holding_id = :account_holding_id")
		args["account_holding_id"] = f.AccountHoldingID
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM payments"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM payments" + whereClause + " ORDER BY date DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var payments []model.Payment
	if err := database.NamedSelect(ctx, q, &payments, query, args); err != nil {
		return nil, 0, err
	}
	return payments, count, nil
}

func (r *SQLRepository) DeleteByAccountHolding(ctx context.Context, accountHoldingID string) error {
	q := database.Conn(ctx, r.DB)
	_, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM payments WHERE account_holding_id = ?`), accountHoldingID)
	return err
}

func (r *SQLRepository) Collected(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	q := database.Conn(ctx, r.DB)
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int             `db:"payment_count"`
	}
	err := q.GetContext(ctx, &row, q.Rebind(`
        SELECT COALESCE(SUM(amount), 0) AS total, count(*) AS payment_count
        FROM payments
        WHERE created_at >= ? AND created_at <= ?
    `), from, to)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}
