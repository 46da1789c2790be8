package accountholding

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type UseCase interface {
	CreateAccountHolding(ctx context.Context, input *dto.CreateAccountHoldingInput) (*model.AccountHolding, error)
	// GetAccountHolding returns the holding with its customer, line items and payments.
	GetAccountHolding(ctx context.Context, id string) (*model.AccountHolding, error)
	ListAccountHoldings(ctx context.Context, filters *dto.AccountHoldingFilters) ([]model.AccountHolding, int, error)
	// CancelReservation deletes a HOLDING with its payments and line items and releases
	// the reserved stock. It returns the deleted snapshot.
	CancelReservation(ctx context.Context, id string) (*model.AccountHolding, error)
}

// LockKey is the lock that serializes every mutation of one account holding.
func LockKey(id string) string {
	return fmt.Sprintf("lock:account_holding:%s", id)
}
