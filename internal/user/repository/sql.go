package repository

import (
	"context"
	"database/sql"
	"errors"

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

func (r *SQLRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, name, username, role, is_active, created_at, updated_at)
        VALUES (:id, :name, :username, :role, :is_active, :created_at, :updated_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, u)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE id = ?`, id)
}

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT * FROM users WHERE username = ?`, username)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	q := database.Conn(ctx, r.DB)
	var u model.User
	if err := q.GetContext(ctx, &u, q.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
