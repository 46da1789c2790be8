package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	clock *clock.Manual
	uc    cashregister.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewManual(now)
	require.NoError(t, store.Users().Create(context.Background(), &model.User{
		BaseModel: model.BaseModel{ID: "user-1"},
		Name:      "Cashier",
		Username:  "cashier",
		IsActive:  true,
	}))
	uc := NewCashRegisterUseCase(store.CashRegister(), store.Users(), store.Payments(), store, clk, logger.NewNop())
	return &fixture{store: store, clock: clk, uc: uc}
}

func (f *fixture) payment(t *testing.T, id, amount string, at time.Time) {
	t.Helper()
	require.NoError(t, f.store.Payments().Create(context.Background(), &model.Payment{
		ID:               id,
		AccountHoldingID: "ah-1",
		CustomerID:       "cust-1",
		Amount:           decimal.RequireFromString(amount),
		Date:             at,
		CreatedAt:        at,
	}))
}

func (f *fixture) open(t *testing.T, amount string) *model.CashRegisterSession {
	t.Helper()
	s, err := f.uc.OpenSession(context.Background(), &dto.OpenSessionInput{
		UserID:        "user-1",
		OpeningAmount: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return s
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCloseSessionReconcilesDrawer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.payment(t, "before", "70", now.Add(-time.Hour))
	s := f.open(t, "100")
	f.payment(t, "pay-1", "50", now.Add(time.Hour))
	f.payment(t, "pay-2", "30", now.Add(2*time.Hour))

	_, err := f.uc.RecordMovement(ctx, s.ID, &dto.MovementInput{Type: "IN", Amount: decimal.RequireFromString("20"), Description: "extra float"})
	require.NoError(t, err)
	_, err = f.uc.RecordMovement(ctx, s.ID, &dto.MovementInput{Type: "OUT", Amount: decimal.RequireFromString("15"), Description: "courier"})
	require.NoError(t, err)

	f.clock.Advance(3 * time.Hour)
	current, err := f.uc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, current.Session.ID)
	assert.Equal(t, "80.00", current.Payments.StringFixed(2))
	assert.Equal(t, 2, current.PaymentCount)
	assert.Equal(t, "185.00", current.Expected.StringFixed(2))
	assert.Len(t, current.Session.Movements, 2)

	report, err := f.uc.CloseSession(ctx, s.ID, &dto.CloseSessionInput{CountedAmount: amount("184"), Notes: "one coin short"})
	require.NoError(t, err)
	closed := report.Session
	assert.Equal(t, model.CashSessionClosed, closed.Status)
	assert.Equal(t, "185.00", closed.Expected.StringFixed(2))
	assert.Equal(t, "-1.00", closed.Difference.StringFixed(2))
	assert.Equal(t, model.DeviationNormal, *closed.Deviation)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, now.Add(3*time.Hour), *closed.ClosedAt)

	// Payments after the close belong to the next session.
	f.payment(t, "pay-3", "40", now.Add(4*time.Hour))
	f.clock.Advance(2 * time.Hour)
	got, err := f.uc.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "185.00", got.Expected.StringFixed(2))
	assert.Equal(t, "one coin short", *got.Session.Notes)

	_, err = f.uc.RecordMovement(ctx, s.ID, &dto.MovementInput{Type: "IN", Amount: decimal.RequireFromString("1"), Description: "late"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	_, err = f.uc.CloseSession(ctx, s.ID, &dto.CloseSessionInput{CountedAmount: amount("185")})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	_, err = f.uc.CurrentSession(ctx)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestOnlyOneSessionIsOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.open(t, "50")

	_, err := f.uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: "user-1"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = f.uc.CloseSession(ctx, first.ID, &dto.CloseSessionInput{CountedAmount: amount("50")})
	require.NoError(t, err)

	second, err := f.uc.OpenSession(auth.WithUserID(ctx, "user-1"), &dto.OpenSessionInput{})
	require.NoError(t, err)
	assert.Equal(t, "user-1", second.UserID)

	items, total, err := f.uc.ListSessions(ctx, &dto.SessionFilters{Status: "CLOSED"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, first.ID, items[0].ID)
}

func TestOpenAndMovementValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: "user-1", OpeningAmount: decimal.NewFromInt(-1)})
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
	_, err = f.uc.OpenSession(ctx, &dto.OpenSessionInput{})
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
	_, err = f.uc.OpenSession(ctx, &dto.OpenSessionInput{UserID: "ghost"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	s := f.open(t, "0")
	tests := []struct {
		name  string
		id    string
		input dto.MovementInput
		kind  apperror.Kind
	}{
		{"unknown type", s.ID, dto.MovementInput{Type: "LOAN", Amount: decimal.NewFromInt(1), Description: "x"}, apperror.KindInvalidArgument},
		{"zero amount", s.ID, dto.MovementInput{Type: "IN", Description: "x"}, apperror.KindInvalidArgument},
		{"blank description", s.ID, dto.MovementInput{Type: "OUT", Amount: decimal.NewFromInt(1), Description: "  "}, apperror.KindInvalidArgument},
		{"unknown session", "missing", dto.MovementInput{Type: "IN", Amount: decimal.NewFromInt(1), Description: "x"}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := f.uc.RecordMovement(ctx, tt.id, &input)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}

	_, err = f.uc.CloseSession(ctx, s.ID, &dto.CloseSessionInput{})
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
	report, err := f.uc.CloseSession(ctx, s.ID, &dto.CloseSessionInput{CountedAmount: amount("3")})
	require.NoError(t, err)
	assert.Equal(t, model.DeviationCritical, *report.Session.Deviation)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		difference string
		expected   string
		want       model.Deviation
	}{
		{"0", "0", model.DeviationNormal},
		{"5", "0", model.DeviationCritical},
		{"-1", "100", model.DeviationNormal},
		{"1", "100", model.DeviationNormal},
		{"3", "100", model.DeviationWarning},
		{"-5", "100", model.DeviationWarning},
		{"5.01", "100", model.DeviationCritical},
		{"-40", "100", model.DeviationCritical},
	}
	for _, tt := range tests {
		t.Run(tt.difference+"/"+tt.expected, func(t *testing.T) {
			got := Classify(decimal.RequireFromString(tt.difference), decimal.RequireFromString(tt.expected))
			assert.Equal(t, tt.want, got)
		})
	}
}
