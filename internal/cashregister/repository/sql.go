package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

// sessionColumns is listed explicitly because the mysql table carries a generated
// open_marker column that has no field on the model.
const sessionColumns = `id, user_id, opening_amount, expected_amount, counted_amount, difference,
            deviation, status, notes, opened_at, closed_at, created_at, updated_at`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *model.CashRegisterSession) error {
	query := `
        INSERT INTO cash_register_sessions (
            id, user_id, opening_amount, status, opened_at, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :opening_amount, :status, :opened_at, :created_at, :updated_at
        )
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	return err
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*model.CashRegisterSession, error) {
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM cash_register_sessions WHERE id = ?`, id)
}

func (r *SQLRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.CashRegisterSession, error) {
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM cash_register_sessions WHERE id = ? FOR UPDATE`, id)
}

func (r *SQLRepository) FindOpen(ctx context.Context) (*model.CashRegisterSession, error) {
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM cash_register_sessions WHERE status = ?`, string(model.CashSessionOpen))
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.CashRegisterSession, error) {
	q := database.Conn(ctx, r.DB)
	var s model.CashRegisterSession
	if err := q.GetContext(ctx, &s, q.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) FindAll(ctx context.Context, f *dto.SessionFilters) ([]model.CashRegisterSession, int, error) {
	q := database.Conn(ctx, r.DB)

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
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
	if err := database.NamedGet(ctx, q, &count, "SELECT count(*) FROM cash_register_sessions"+whereClause, args); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + sessionColumns + " FROM cash_register_sessions" + whereClause + " ORDER BY opened_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit OFFSET :offset"
		args["limit"] = f.Limit
		args["offset"] = f.Offset()
	}

	var items []model.CashRegisterSession
	if err := database.NamedSelect(ctx, q, &items, query, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *SQLRepository) Close(ctx context.Context, s *model.CashRegisterSession) error {
	query := `
        UPDATE cash_register_sessions
        SET expected_amount = :expected_amount,
            counted_amount = :counted_amount,
            difference = :difference,
            deviation = :deviation,
            status = :status,
            notes = :notes,
            closed_at = :closed_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	return err
}

func (r *SQLRepository) AddMovement(ctx context.Context, m *model.CashMovement) error {
	query := `
        INSERT INTO cash_movements (id, session_id, type, amount, description, created_by, created_at)
        VALUES (:id, :session_id, :type, :amount, :description, :created_by, :created_at)
    `
	_, err := database.Conn(ctx, r.DB).NamedExecContext(ctx, query, m)
	return err
}

func (r *SQLRepository) ListMovements(ctx context.Context, sessionID string) ([]model.CashMovement, error) {
	q := database.Conn(ctx, r.DB)
	movements := []model.CashMovement{}
	err := q.SelectContext(ctx, &movements,
		q.Rebind(`SELECT * FROM cash_movements WHERE session_id = ? ORDER BY created_at ASC, id ASC`),
		sessionID)
	return movements, err
}
