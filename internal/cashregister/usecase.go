package cashregister

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type UseCase interface {
	// OpenSession starts a shift. Only one session may be open at a time.
	OpenSession(ctx context.Context, input *dto.OpenSessionInput) (*model.CashRegisterSession, error)
	// GetSession reports an open session against the current time and a closed one
	// against its closing time.
	GetSession(ctx context.Context, id string) (*dto.SessionReport, error)
	CurrentSession(ctx context.Context) (*dto.SessionReport, error)
	ListSessions(ctx context.Context, filters *dto.SessionFilters) ([]model.CashRegisterSession, int, error)
	RecordMovement(ctx context.Context, sessionID string, input *dto.MovementInput) (*model.CashMovement, error)
	// CloseSession reconciles the counted cash against the expected amount and grades
	// the difference.
	CloseSession(ctx context.Context, id string, input *dto.CloseSessionInput) (*dto.SessionReport, error)
}
