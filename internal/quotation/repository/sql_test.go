package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/repository"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	testutil.Seed(t, ctx, db, 1)
	repo := repository.NewSQLRepository(db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	q := &model.Quotation{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerID: testutil.CustomerID,
		UserID:     testutil.UserID,
		Date:       now,
		ValidUntil: now.Add(15 * 24 * time.Hour),
		Total:      decimal.RequireFromString("44"),
		Status:     model.QuotationOpen,
	}
	require.NoError(t, repo.Create(ctx, q))

	got, err := repo.FindByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, q.ValidUntil.Equal(got.ValidUntil))
	assert.Nil(t, got.AccountHoldingID)

	holdingID := uuid.New().String()
	got.Status = model.QuotationConverted
	got.AccountHoldingID = &holdingID
	got.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, got))

	items, total, err := repo.FindAll(ctx, &dto.QuotationFilters{Status: "CONVERTED", CustomerID: testutil.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.NotNil(t, items[0].AccountHoldingID)
	assert.Equal(t, holdingID, *items[0].AccountHoldingID)
}
