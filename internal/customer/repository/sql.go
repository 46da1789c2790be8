package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/customer/dto"
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

func (r *SQLRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (id, name, email, phone, document_number, address, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :document_number, :address, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := database.Conn(ctx, r.DB)
	var c model.Customer
	err := q.GetContext(ctx, &c, q.Rebind(`SELECT * FROM customers WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	q := database.Conn(ctx, r.DB)

	whereClause := ""
	args := map[string]interface{}{}
	if f.SearchQuery != "" {
		whereClause = " WHERE (LOWER(name) LIKE :search OR LOWER(email) LIKE :search OR document_number LIKE :search)"
		args["search"] = "%" + strings.ToLower(f.SearchQuery) + "%"
	}

	var count int
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM customers"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM customers" + whereClause + " ORDER BY name ASC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var customers []model.Customer
	if err := database.NamedSelect(ctx, q, &customers, query, args); err != nil {
		return nil, 0, err
	}
	return customers, count, nil
}
