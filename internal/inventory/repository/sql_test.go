package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLockPreventsLostUpdates(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.Seed(t, ctx, db, 10)
	repo := repository.NewSQLRepository(db)
	tx := database.NewTransactor(db)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- tx.WithTx(ctx, func(ctx context.Context) error {
				p, err := repo.GetProductForUpdate(ctx, testutil.ProductID)
				if err != nil {
					return err
				}
				stockBefore, reservedBefore := p.Stock, p.ReservedStock
				time.Sleep(10 * time.Millisecond)
				p.ReservedStock++
				p.UpdatedAt = time.Now().UTC()
				if err := repo.UpdateStock(ctx, p); err != nil {
					return err
				}
				return repo.LogMovement(ctx, &model.InventoryMovement{
					ID:             uuid.New().String(),
					ProductID:      p.ID,
					MovementType:   model.MovementReserve,
					Quantity:       1,
					StockBefore:    stockBefore,
					StockAfter:     p.Stock,
					ReservedBefore: reservedBefore,
					ReservedAfter:  p.ReservedStock,
					CreatedAt:      p.UpdatedAt,
				})
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	err := tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := repo.GetProductForUpdate(ctx, testutil.ProductID)
		require.NoError(t, err)
		assert.Equal(t, 10, p.Stock)
		assert.Equal(t, workers, p.ReservedStock)
		return nil
	})
	require.NoError(t, err)

	movements, total, err := repo.ListMovements(ctx, &dto.MovementFilters{
		ProductID:    testutil.ProductID,
		MovementType: string(model.MovementReserve),
		Params:       pagination.Normalize(1, 50),
	})
	require.NoError(t, err)
	assert.Equal(t, workers, total)
	seen := map[int]bool{}
	for _, m := range movements {
		assert.Equal(t, m.ReservedBefore+1, m.ReservedAfter)
		seen[m.ReservedAfter] = true
	}
	assert.Len(t, seen, workers, "every reservation saw the previous one")

	missing, err := repo.GetProductForUpdate(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
