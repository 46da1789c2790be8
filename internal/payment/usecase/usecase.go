package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/payment"
	"github.com/fekuna/omnipos-sales-service/internal/payment/dto"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/soldproduct"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type paymentUseCase struct {
	repo        payment.Repository
	holdingRepo accountholding.Repository
	soldRepo    soldproduct.Repository
	ledger      inventory.Ledger
	finalizer   sale.Finalizer
	tx          database.Transactor
	locker      cache.Locker
	lockTTL     time.Duration
	clock       clock.Clock
	logger      logger.ZapLogger
}

func NewPaymentUseCase(
	repo payment.Repository,
	holdingRepo accountholding.Repository,
	soldRepo soldproduct.Repository,
	ledger inventory.Ledger,
	finalizer sale.Finalizer,
	tx database.Transactor,
	locker cache.Locker,
	lockTTL time.Duration,
	clk clock.Clock,
	log logger.ZapLogger,
) payment.UseCase {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &paymentUseCase{
		repo:        repo,
		holdingRepo: holdingRepo,
		soldRepo:    soldRepo,
		ledger:      ledger,
		finalizer:   finalizer,
		tx:          tx,
		locker:      locker,
		lockTTL:     lockTTL,
		clock:       clk,
		logger:      log,
	}
}

func (uc *paymentUseCase) CreatePayment(ctx context.Context, input *dto.CreatePaymentInput) (*dto.PaymentResult, error) {
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperror.InvalidArgument("Amount must be positive")
	}
	if input.AccountHoldingID == "" {
		return nil, apperror.InvalidArgument("accountHoldingId is required")
	}

	result := &dto.PaymentResult{}
	err := cache.WithLock(ctx, uc.locker, accountholding.LockKey(input.AccountHoldingID), uc.lockTTL, uc.logger, func() error {
		return uc.tx.WithTx(ctx, func(ctx context.Context) error {
			ah, err := uc.holdingRepo.FindByIDForUpdate(ctx, input.AccountHoldingID)
			if err != nil {
				return apperror.Wrap(err, "failed to get account holding")
			}
			if ah == nil {
				return apperror.NotFound("Account holding not found")
			}
			if ah.CustomerID != input.CustomerID {
				return apperror.InvalidArgument("Account holding does not belong to this customer")
			}
			if !ah.ToPay.IsPositive() || ah.Status.IsTerminal() {
				return apperror.InvalidArgument("Account holding is already paid")
			}

			applied := amount
			if applied.GreaterThan(ah.ToPay) {
				applied = ah.ToPay
			}
			result.Change = amount.Sub(applied)

			now := uc.clock.Now()
			date := now
			if input.Date != nil {
				date = *input.Date
			}
			p := &model.Payment{
				ID:               uuid.New().String(),
				AccountHoldingID: ah.ID,
				CustomerID:       ah.CustomerID,
				Amount:           applied,
				Date:             date,
				CreatedAt:        now,
			}
			if err := uc.repo.Create(ctx, p); err != nil {
				return apperror.Wrap(err, "failed to create payment")
			}
			result.Payment = p

			ah.Paid = ah.Paid.Add(applied)
			ah.ToPay = ah.ToPay.Sub(applied)
			ah.Status = model.StatusPartial
			ah.UpdatedAt = now
			if err := uc.holdingRepo.Update(ctx, ah); err != nil {
				return apperror.Wrap(err, "failed to update account holding")
			}

			if ah.IsSettled() {
				if ah.Type == model.OperationHolding {
					if err := uc.settleReservation(ctx, ah.ID); err != nil {
						return err
					}
				}
				s, err := uc.finalizer.FinalizeAccountHolding(ctx, ah.ID)
				if err != nil {
					return err
				}
				result.Sale = s
			}

			result.AccountHolding, err = uc.holdingRepo.FindByID(ctx, ah.ID)
			if err != nil {
				return apperror.Wrap(err, "failed to reload account holding")
			}
			result.AccountHolding.Payments, err = uc.repo.ListByAccountHolding(ctx, ah.ID)
			if err != nil {
				return apperror.Wrap(err, "failed to list payments")
			}
			return nil
		})
	})
	if err != nil {
		uc.logger.Warn("payment rejected",
			zap.String("account_holding_id", input.AccountHoldingID),
			zap.String("amount", amount.StringFixed(2)),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("payment applied",
		zap.String("payment_id", result.Payment.ID),
		zap.String("account_holding_id", input.AccountHoldingID),
		zap.String("applied", result.Payment.Amount.StringFixed(2)),
		zap.String("to_pay", result.AccountHolding.ToPay.StringFixed(2)),
		zap.Bool("finalized", result.Sale != nil),
	)
	return result, nil
}

// settleReservation turns every reserved line of a HOLDING into a stock deduction.
func (uc *paymentUseCase) settleReservation(ctx context.Context, accountHoldingID string) error {
	lines, err := uc.soldRepo.ListByOwner(ctx, model.HoldingOwner(accountHoldingID))
	if err != nil {
		return apperror.Wrap(err, "failed to list line items")
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	ref := inventory.Reference{Type: inventory.RefAccountHolding, ID: accountHoldingID}
	for _, line := range lines {
		if err := uc.ledger.Settle(ctx, line.ProductID, line.Quantity, ref); err != nil {
			return err
		}
	}
	return nil
}

func (uc *paymentUseCase) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get payment")
	}
	if p == nil {
		return nil, apperror.NotFound("Payment not found")
	}
	return p, nil
}

func (uc *paymentUseCase) ListPayments(ctx context.Context, filters *dto.PaymentFilters) ([]model.Payment, int, error) {
	payments, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list payments")
	}
	return payments, count, nil
}
