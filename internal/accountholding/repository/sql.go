package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
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

func (r *SQLRepository) Create(ctx context.Context, ah *model.AccountHolding) error {
	query := `
        INSERT INTO account_holdings (
            id, customer_id, user_id, date, total, paid, to_pay,
            type, status, sale_id, created_at, updated_at
        )
        VALUES (
            :id, :customer_id, :user_id, :date, :total, :paid, :to_pay,
            :type, :status, :sale_id, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, ah)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.AccountHolding, error) {
	return r.findOne(ctx, `SELECT * FROM account_holdings WHERE id = ?`, id)
}

func (r *SQLRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.AccountHolding, error) {
	return r.findOne(ctx, `SELECT * FROM account_holdings WHERE id = ? FOR UPDATE`, id)
}

func (r *SQLRepository) findOne(ctx context.Context, query, id string) (*model.AccountHolding, error) {
	q := database.Conn(ctx, r.DB)
	var ah model.AccountHolding
	if err := q.GetContext(ctx, &ah, q.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ah, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.AccountHoldingFilters) ([]model.AccountHolding, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
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
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM account_holdings"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM account_holdings" + whereClause + " ORDER BY date DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var items []model.AccountHolding
	if err := database.NamedSelect(ctx, q, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, ah *model.AccountHolding) error {
	query := `
        UPDATE account_holdings
        SET paid = :paid,
            to_pay = :to_pay,
            status = :status,
            sale_id = :sale_id,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, ah)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	q := database.Conn(ctx, r.DB)
	_, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM account_holdings WHERE id = ?`), id)
	return err
}
