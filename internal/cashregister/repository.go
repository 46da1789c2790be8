package cashregister

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	// Create fails with a unique violation while another session is open.
	Create(ctx context.Context, s *model.CashRegisterSession) error
	FindByID(ctx context.Context, id string) (*model.CashRegisterSession, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.CashRegisterSession, error)
	FindOpen(ctx context.Context) (*model.CashRegisterSession, error)
	FindAll(ctx context.Context, filters *dto.SessionFilters) ([]model.CashRegisterSession, int, error)
	// Close writes the closing count columns and the status.
	Close(ctx context.Context, s *model.CashRegisterSession) error
	AddMovement(ctx context.Context, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID string) ([]model.CashMovement, error)
}
