package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	invUC "github.com/fekuna/omnipos-sales-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	uc    accountholding.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	clk := clock.NewFixed(now)
	log := logger.NewNop()

	ledger := invUC.NewInventoryUseCase(store.Inventory(), store, nil, 0, nil, clk, log)
	uc := NewAccountHoldingUseCase(Repositories{
		AccountHoldings: store.AccountHoldings(),
		Customers:       store.Customers(),
		Users:           store.Users(),
		Products:        store.Products(),
		SoldProducts:    store.SoldProducts(),
		Payments:        store.Payments(),
	}, ledger, store, nil, 0, clk, log)

	require.NoError(t, store.Customers().Create(ctx, &model.Customer{BaseModel: model.BaseModel{ID: "cust-1"}, Name: "Ana"}))
	require.NoError(t, store.Users().Create(ctx, &model.User{BaseModel: model.BaseModel{ID: "user-1"}, Name: "Cashier", Username: "cashier", IsActive: true}))
	return &fixture{store: store, uc: uc}
}

func (f *fixture) product(t *testing.T, id string, price string, stock int) {
	t.Helper()
	p := decimal.RequireFromString(price)
	require.NoError(t, f.store.Products().Create(context.Background(), &model.Product{
		BaseModel:      model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		SKU:            "SKU-" + id,
		Name:           "Product " + id,
		SalePrice:      p,
		WholesalePrice: p.Sub(decimal.NewFromInt(1)),
		TouristPrice:   p.Add(decimal.NewFromInt(1)),
		Stock:          stock,
		IsActive:       true,
	}))
}

func (f *fixture) stock(t *testing.T, id string) (int, int) {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock, p.ReservedStock
}

func input(opType string, items ...dto.LineItemInput) *dto.CreateAccountHoldingInput {
	return &dto.CreateAccountHoldingInput{
		CustomerID: "cust-1",
		UserID:     "user-1",
		Type:       opType,
		Products:   items,
	}
}

func line(productID string, qty int, priceType string) dto.LineItemInput {
	return dto.LineItemInput{ProductID: productID, Quantity: qty, PriceType: priceType}
}

func TestCreateAccountDeductsStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "p1", "10", 10)

	ah, err := f.uc.CreateAccountHolding(ctx, input("ACCOUNT", line("p1", 3, "SALE")))
	require.NoError(t, err)

	assert.Equal(t, model.OperationAccount, ah.Type)
	assert.Equal(t, model.StatusPending, ah.Status)
	assert.Equal(t, "30.00", ah.Total.StringFixed(2))
	assert.True(t, ah.Paid.IsZero())
	assert.True(t, ah.ToPay.Equal(ah.Total))
	assert.Equal(t, now, ah.Date)
	require.Len(t, ah.Products, 1)
	assert.Equal(t, "30.00", ah.Products[0].Total.StringFixed(2))
	assert.True(t, ah.Products[0].PriceWithoutIVA.Add(ah.Products[0].IVA).Equal(ah.Products[0].Price))

	stock, reserved := f.stock(t, "p1")
	assert.Equal(t, 7, stock)
	assert.Equal(t, 0, reserved)
}

func TestCreateHoldingReservesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "p1", "4.50", 1)
	f.product(t, "p2", "2", 5)

	// reservations are not limited by available stock
	ah, err := f.uc.CreateAccountHolding(ctx, input("HOLDING",
		line("p1", 2, "SALE"),
		line("p2", 1, "WHOLESALE"),
		line("p1", 1, "TOURIST"),
	))
	require.NoError(t, err)
	assert.Equal(t, "15.50", ah.Total.StringFixed(2))

	stock, reserved := f.stock(t, "p1")
	assert.Equal(t, 1, stock)
	assert.Equal(t, 3, reserved)
	stock, reserved = f.stock(t, "p2")
	assert.Equal(t, 5, stock)
	assert.Equal(t, 1, reserved)

	got, err := f.uc.GetAccountHolding(ctx, ah.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 3)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Ana", got.Customer.Name)
	for _, sp := range got.Products {
		assert.Equal(t, model.HoldingOwner(ah.ID), sp.LineOwner)
		require.NotNil(t, sp.Product)
	}
	assert.Empty(t, got.Payments)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "p1", "10", 10)
	f.product(t, "free", "0", 10)

	tests := []struct {
		name  string
		input *dto.CreateAccountHoldingInput
		kind  apperror.Kind
	}{
		{"unknown type", input("LAYAWAY", line("p1", 1, "SALE")), apperror.KindInvalidArgument},
		{"no products", input("ACCOUNT"), apperror.KindInvalidArgument},
		{"zero quantity", input("ACCOUNT", line("p1", 0, "SALE")), apperror.KindInvalidArgument},
		{"invalid price type", input("ACCOUNT", line("p1", 1, "VIP")), apperror.KindInvalidArgument},
		{"missing product", input("ACCOUNT", line("p1", 1, "SALE"), line("ghost", 1, "SALE")), apperror.KindNotFound},
		{"zero total", input("ACCOUNT", line("free", 2, "SALE")), apperror.KindInvalidArgument},
		{"short stock", input("ACCOUNT", line("p1", 11, "SALE")), apperror.KindInvalidArgument},
		{"created paid", &dto.CreateAccountHoldingInput{
			CustomerID: "cust-1", UserID: "user-1", Type: "ACCOUNT", Status: "PAID",
			Products: []dto.LineItemInput{line("p1", 1, "SALE")},
		}, apperror.KindInvalidArgument},
		{"missing customer", &dto.CreateAccountHoldingInput{
			CustomerID: "nobody", UserID: "user-1", Type: "ACCOUNT",
			Products: []dto.LineItemInput{line("p1", 1, "SALE")},
		}, apperror.KindNotFound},
		{"missing user", &dto.CreateAccountHoldingInput{
			CustomerID: "cust-1", UserID: "nobody", Type: "ACCOUNT",
			Products: []dto.LineItemInput{line("p1", 1, "SALE")},
		}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateAccountHolding(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err), err.Error())
		})
	}

	stock, _ := f.stock(t, "p1")
	assert.Equal(t, 10, stock)
	items, total, err := f.uc.ListAccountHoldings(ctx, &dto.AccountHoldingFilters{Params: pagination.Normalize(1, 10)})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestCreateRollsBackWhenLaterLineFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "a", "1", 5)
	f.product(t, "b", "1", 1)

	_, err := f.uc.CreateAccountHolding(ctx, input("ACCOUNT", line("a", 2, "SALE"), line("b", 2, "SALE")))
	require.Error(t, err)

	stock, _ := f.stock(t, "a")
	assert.Equal(t, 5, stock)
}

func TestGetAccountHoldingNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetAccountHolding(context.Background(), "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCancelReservationRestoresReservedStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "p1", "10", 10)

	ah, err := f.uc.CreateAccountHolding(ctx, input("HOLDING", line("p1", 4, "SALE")))
	require.NoError(t, err)
	require.NoError(t, f.store.Payments().Create(ctx, &model.Payment{
		ID: "pay-1", AccountHoldingID: ah.ID, CustomerID: "cust-1", Amount: decimal.NewFromInt(5), Date: now,
	}))

	cancelled, err := f.uc.CancelReservation(ctx, ah.ID)
	require.NoError(t, err)
	assert.Equal(t, ah.ID, cancelled.ID)
	assert.Len(t, cancelled.Products, 1)
	assert.Len(t, cancelled.Payments, 1)

	stock, reserved := f.stock(t, "p1")
	assert.Equal(t, 10, stock)
	assert.Equal(t, 0, reserved)

	_, err = f.uc.GetAccountHolding(ctx, ah.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	lines, err := f.store.SoldProducts().ListByOwner(ctx, model.HoldingOwner(ah.ID))
	require.NoError(t, err)
	assert.Empty(t, lines)
	payments, err := f.store.Payments().ListByAccountHolding(ctx, ah.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	_, err = f.uc.CancelReservation(ctx, ah.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCancelReservationRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "p1", "10", 10)

	account, err := f.uc.CreateAccountHolding(ctx, input("ACCOUNT", line("p1", 1, "SALE")))
	require.NoError(t, err)
	_, err = f.uc.CancelReservation(ctx, account.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	holding, err := f.uc.CreateAccountHolding(ctx, input("HOLDING", line("p1", 2, "SALE")))
	require.NoError(t, err)
	paid, err := f.store.AccountHoldings().FindByID(ctx, holding.ID)
	require.NoError(t, err)
	paid.Status = model.StatusPaid
	paid.Paid = paid.Total
	paid.ToPay = decimal.Zero
	require.NoError(t, f.store.AccountHoldings().Update(ctx, paid))

	_, err = f.uc.CancelReservation(ctx, holding.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))
	_, reserved := f.stock(t, "p1")
	assert.Equal(t, 2, reserved)
}

func TestListAccountHoldingsFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.product(t, "p1", "10", 10)

	_, err := f.uc.CreateAccountHolding(ctx, input("ACCOUNT", line("p1", 1, "SALE")))
	require.NoError(t, err)
	_, err = f.uc.CreateAccountHolding(ctx, input("HOLDING", line("p1", 1, "SALE")))
	require.NoError(t, err)

	items, total, err := f.uc.ListAccountHoldings(ctx, &dto.AccountHoldingFilters{Type: "HOLDING", Params: pagination.Normalize(1, 10)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, model.OperationHolding, items[0].Type)

	_, _, err = f.uc.ListAccountHoldings(ctx, &dto.AccountHoldingFilters{Status: "DONE", Params: pagination.Normalize(1, 10)})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))
}
