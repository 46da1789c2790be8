package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/soldproduct/repository"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(owner model.LineOwner, qty int) model.SoldProduct {
	return model.SoldProduct{
		ID:              uuid.New().String(),
		ProductID:       testutil.ProductID,
		LineOwner:       owner,
		Quantity:        qty,
		PriceType:       model.PriceTypeSale,
		Price:           decimal.RequireFromString("10"),
		PriceWithoutIVA: decimal.RequireFromString("8.85"),
		IVA:             decimal.RequireFromString("1.15"),
		Total:           decimal.RequireFromString("10").Mul(decimal.NewFromInt(int64(qty))),
		CreatedAt:       time.Now().UTC(),
	}
}

func TestReparentMovesEveryLine(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.Seed(t, ctx, db, 10)
	repo := repository.NewSQLRepository(db)

	holding := model.HoldingOwner(uuid.New().String())
	other := model.HoldingOwner(uuid.New().String())
	sale := model.SaleOwner(uuid.New().String())
	require.NoError(t, repo.CreateBatch(ctx, []model.SoldProduct{line(holding, 1), line(holding, 2), line(other, 3)}))

	t.Run("inside a rolled back transaction", func(t *testing.T) {
		err := database.NewTransactor(db).WithTx(ctx, func(ctx context.Context) error {
			moved, err := repo.Reparent(ctx, holding, sale)
			require.NoError(t, err)
			assert.Equal(t, 2, moved)
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		lines, err := repo.ListByOwner(ctx, holding)
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("committed", func(t *testing.T) {
		moved, err := repo.Reparent(ctx, holding, sale)
		require.NoError(t, err)
		assert.Equal(t, 2, moved)

		left, err := repo.ListByOwner(ctx, holding)
		require.NoError(t, err)
		assert.Empty(t, left)
		lines, err := repo.ListByOwner(ctx, sale)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		for _, l := range lines {
			assert.Equal(t, model.OwnerSale, l.OwnerType)
		}
		untouched, err := repo.ListByOwner(ctx, other)
		require.NoError(t, err)
		assert.Len(t, untouched, 1)

		moved, err = repo.Reparent(ctx, holding, sale)
		require.NoError(t, err)
		assert.Zero(t, moved)
	})

	t.Run("delete by owner", func(t *testing.T) {
		require.NoError(t, repo.DeleteByOwner(ctx, other))
		lines, err := repo.ListByOwner(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}
