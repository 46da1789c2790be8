package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/accountholding/repository"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHolding(now time.Time) *model.AccountHolding {
	return &model.AccountHolding{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerID: testutil.CustomerID,
		UserID:     testutil.UserID,
		Date:       now,
		Total:      decimal.RequireFromString("30"),
		Paid:       decimal.Zero,
		ToPay:      decimal.RequireFromString("30"),
		Type:       model.OperationHolding,
		Status:     model.StatusPending,
	}
}

func TestSQLRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.Seed(t, ctx, db, 10)
	repo := repository.NewSQLRepository(db)
	tx := database.NewTransactor(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("create and filter", func(t *testing.T) {
		ah := newHolding(now)
		require.NoError(t, repo.Create(ctx, ah))

		got, err := repo.FindByID(ctx, ah.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "30.00", got.ToPay.StringFixed(2))
		assert.Equal(t, model.OperationHolding, got.Type)

		items, total, err := repo.FindAll(ctx, &dto.AccountHoldingFilters{CustomerID: testutil.CustomerID, Type: "HOLDING"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, ah.ID, items[0].ID)

		missing, err := repo.FindByID(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, missing)

		require.NoError(t, repo.Delete(ctx, ah.ID))
		gone, err := repo.FindByID(ctx, ah.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("row lock serializes updates", func(t *testing.T) {
		ah := newHolding(now)
		require.NoError(t, repo.Create(ctx, ah))

		locked := make(chan struct{})
		firstDone := make(chan error, 1)
		go func() {
			firstDone <- tx.WithTx(ctx, func(ctx context.Context) error {
				cur, err := repo.FindByIDForUpdate(ctx, ah.ID)
				if err != nil {
					return err
				}
				close(locked)
				time.Sleep(200 * time.Millisecond)
				cur.Paid = decimal.RequireFromString("10")
				cur.ToPay = decimal.RequireFromString("20")
				cur.Status = model.StatusPartial
				return repo.Update(ctx, cur)
			})
		}()

		<-locked
		var seen *model.AccountHolding
		start := time.Now()
		err := tx.WithTx(ctx, func(ctx context.Context) error {
			var err error
			seen, err = repo.FindByIDForUpdate(ctx, ah.ID)
			return err
		})
		require.NoError(t, err)
		require.NoError(t, <-firstDone)

		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond, "the second lock waited for the first commit")
		require.NotNil(t, seen)
		assert.Equal(t, "10.00", seen.Paid.StringFixed(2))
		assert.Equal(t, model.StatusPartial, seen.Status)
	})
}
