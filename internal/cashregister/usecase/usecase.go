package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/payment"
	"github.com/fekuna/omnipos-sales-service/internal/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Deviation bands, as a percentage of the expected amount.
var (
	NormalBand  = decimal.NewFromInt(1)
	WarningBand = decimal.NewFromInt(5)
)

type cashRegisterUseCase struct {
	repo     cashregister.Repository
	users    user.Repository
	payments payment.Repository
	tx       database.Transactor
	clock    clock.Clock
	logger   logger.ZapLogger
}

func NewCashRegisterUseCase(
	repo cashregister.Repository,
	users user.Repository,
	payments payment.Repository,
	tx database.Transactor,
	clk clock.Clock,
	log logger.ZapLogger,
) cashregister.UseCase {
	return &cashRegisterUseCase{
		repo:     repo,
		users:    users,
		payments: payments,
		tx:       tx,
		clock:    clk,
		logger:   log,
	}
}

func (uc *cashRegisterUseCase) OpenSession(ctx context.Context, input *dto.OpenSessionInput) (*model.CashRegisterSession, error) {
	if input.OpeningAmount.IsNegative() {
		return nil, apperror.InvalidArgument("openingAmount cannot be negative")
	}
	userID := input.UserID
	if userID == "" {
		userID = auth.GetUserID(ctx)
	}
	if userID == "" {
		return nil, apperror.InvalidArgument("userId is required")
	}
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get user")
	}
	if u == nil {
		return nil, apperror.NotFound("User not found")
	}

	now := uc.clock.Now()
	s := &model.CashRegisterSession{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:        u.ID,
		OpeningAmount: input.OpeningAmount.Round(2),
		Status:        model.CashSessionOpen,
		OpenedAt:      now,
		Movements:     []model.CashMovement{},
	}

	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		open, err := uc.repo.FindOpen(ctx)
		if err != nil {
			return apperror.Wrap(err, "failed to get open session")
		}
		if open != nil {
			return apperror.Conflict("A cash register session is already open")
		}
		if err := uc.repo.Create(ctx, s); err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.Conflict("A cash register session is already open")
			}
			return apperror.Wrap(err, "failed to open session")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("cash register opened",
		zap.String("session_id", s.ID),
		zap.String("user_id", s.UserID),
		zap.String("opening_amount", s.OpeningAmount.StringFixed(2)),
	)
	return s, nil
}

func (uc *cashRegisterUseCase) GetSession(ctx context.Context, id string) (*dto.SessionReport, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get session")
	}
	if s == nil {
		return nil, apperror.NotFound("Cash register session not found")
	}
	return uc.report(ctx, s)
}

func (uc *cashRegisterUseCase) CurrentSession(ctx context.Context) (*dto.SessionReport, error) {
	s, err := uc.repo.FindOpen(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get open session")
	}
	if s == nil {
		return nil, apperror.NotFound("No cash register session is open")
	}
	return uc.report(ctx, s)
}

// report totals what the drawer should hold: the opening float, every payment taken
// while the session was open and the manual movements.
func (uc *cashRegisterUseCase) report(ctx context.Context, s *model.CashRegisterSession) (*dto.SessionReport, error) {
	to := uc.clock.Now()
	if s.ClosedAt != nil {
		to = *s.ClosedAt
	}
	paid, count, err := uc.payments.Collected(ctx, s.OpenedAt, to)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to sum payments")
	}
	movements, err := uc.repo.ListMovements(ctx, s.ID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to list cash movements")
	}
	s.Movements = movements

	r := &dto.SessionReport{
		Session:      s,
		Payments:     paid,
		PaymentCount: count,
		CashIn:       decimal.Zero,
		CashOut:      decimal.Zero,
	}
	for _, m := range movements {
		if m.Type == model.CashOut {
			r.CashOut = r.CashOut.Add(m.Amount)
		} else {
			r.CashIn = r.CashIn.Add(m.Amount)
		}
	}
	r.Expected = s.OpeningAmount.Add(paid).Add(r.CashIn).Sub(r.CashOut)
	return r, nil
}

func (uc *cashRegisterUseCase) ListSessions(ctx context.Context, filters *dto.SessionFilters) ([]model.CashRegisterSession, int, error) {
	if filters.Status != "" && filters.Status != string(model.CashSessionOpen) && filters.Status != string(model.CashSessionClosed) {
		return nil, 0, apperror.InvalidArgument("Invalid status")
	}
	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list sessions")
	}
	return items, count, nil
}

func (uc *cashRegisterUseCase) RecordMovement(ctx context.Context, sessionID string, input *dto.MovementInput) (*model.CashMovement, error) {
	mt, err := model.ParseCashMovementType(input.Type)
	if err != nil {
		return nil, apperror.InvalidArgument("Invalid movement type")
	}
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperror.InvalidArgument("Amount must be positive")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperror.InvalidArgument("description is required")
	}

	m := &model.CashMovement{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		Type:        mt,
		Amount:      amount,
		Description: description,
		CreatedAt:   uc.clock.Now(),
	}
	if userID := auth.GetUserID(ctx); userID != "" {
		m.CreatedBy = &userID
	}

	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		s, err := uc.repo.FindByIDForUpdate(ctx, sessionID)
		if err != nil {
			return apperror.Wrap(err, "failed to get session")
		}
		if s == nil {
			return apperror.NotFound("Cash register session not found")
		}
		if s.Status != model.CashSessionOpen {
			return apperror.Conflict("Cash register session is closed")
		}
		if err := uc.repo.AddMovement(ctx, m); err != nil {
			return apperror.Wrap(err, "failed to record cash movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("cash movement recorded",
		zap.String("session_id", sessionID),
		zap.String("type", string(m.Type)),
		zap.String("amount", m.Amount.StringFixed(2)),
	)
	return m, nil
}

func (uc *cashRegisterUseCase) CloseSession(ctx context.Context, id string, input *dto.CloseSessionInput) (*dto.SessionReport, error) {
	if input.CountedAmount == nil {
		return nil, apperror.InvalidArgument("countedAmount is required")
	}
	counted := input.CountedAmount.Round(2)
	if counted.IsNegative() {
		return nil, apperror.InvalidArgument("countedAmount cannot be negative")
	}

	var r *dto.SessionReport
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		s, err := uc.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return apperror.Wrap(err, "failed to get session")
		}
		if s == nil {
			return apperror.NotFound("Cash register session not found")
		}
		if s.Status != model.CashSessionOpen {
			return apperror.Conflict("Cash register session is already closed")
		}

		now := uc.clock.Now()
		s.ClosedAt = &now
		r, err = uc.report(ctx, s)
		if err != nil {
			return err
		}

		difference := counted.Sub(r.Expected)
		deviation := Classify(difference, r.Expected)
		s.Expected = &r.Expected
		s.Counted = &counted
		s.Difference = &difference
		s.Deviation = &deviation
		s.Status = model.CashSessionClosed
		s.UpdatedAt = now
		if notes := strings.TrimSpace(input.Notes); notes != "" {
			s.Notes = &notes
		}
		if err := uc.repo.Close(ctx, s); err != nil {
			return apperror.Wrap(err, "failed to close session")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s := r.Session
	log := uc.logger.Info
	if *s.Deviation != model.DeviationNormal {
		log = uc.logger.Warn
	}
	log("cash register closed",
		zap.String("session_id", s.ID),
		zap.String("expected", s.Expected.StringFixed(2)),
		zap.String("counted", s.Counted.StringFixed(2)),
		zap.String("difference", s.Difference.StringFixed(2)),
		zap.String("deviation", string(*s.Deviation)),
	)
	return r, nil
}

// Classify grades a closing difference against the expected amount. With nothing
// expected, any difference is critical.
func Classify(difference, expected decimal.Decimal) model.Deviation {
	if difference.IsZero() {
		return model.DeviationNormal
	}
	if !expected.IsPositive() {
		return model.DeviationCritical
	}
	pct := difference.Abs().Div(expected).Mul(decimal.NewFromInt(100))
	switch {
	case pct.LessThanOrEqual(NormalBand):
		return model.DeviationNormal
	case pct.LessThanOrEqual(WarningBand):
		return model.DeviationWarning
	default:
		return model.DeviationCritical
	}
}
