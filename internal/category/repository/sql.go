package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
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

func (r *SQLRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, parent_id, name, description, image_url, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :parent_id, :name, :description, :image_url, :sort_order, :is_active, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	q := database.Conn(ctx, r.DB)
	var category model.Category
	err := q.GetContext(ctx, &category, q.Rebind(`SELECT * FROM categories WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ParentID != nil {
		if *f.ParentID == "" {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			conditions = append(conditions, "parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
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
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM categories"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM categories" + whereClause + " ORDER BY sort_order ASC, name ASC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var categories []model.Category
	if err := database.NamedSelect(ctx, q, &categories, query, args); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            image_url = :image_url,
            sort_order = :sort_order,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	// children become roots through ON DELETE SET NULL
	q := database.Conn(ctx, r.DB)
	_, err := q.ExecContext(ctx, q.Rebind("DELETE FROM categories WHERE id = ?"), id)
	return err
}
