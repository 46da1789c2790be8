package usecase

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/internal/soldproduct"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EventSaleFinalized = "SaleFinalized"

type saleUseCase struct {
	repo        sale.Repository
	holdingRepo accountholding.Repository
	soldRepo    soldproduct.Repository
	tx          database.Transactor
	publisher   broker.Publisher
	clock       clock.Clock
	logger      logger.ZapLogger
}

func NewSaleUseCase(
	repo sale.Repository,
	holdingRepo accountholding.Repository,
	soldRepo soldproduct.Repository,
	tx database.Transactor,
	publisher broker.Publisher,
	clk clock.Clock,
	log logger.ZapLogger,
) sale.UseCase {
	if publisher == nil {
		publisher = broker.NewNopPublisher()
	}
	return &saleUseCase{
		repo:        repo,
		holdingRepo: holdingRepo,
		soldRepo:    soldRepo,
		tx:          tx,
		publisher:   publisher,
		clock:       clk,
		logger:      log,
	}
}

func (uc *saleUseCase) FinalizeAccountHolding(ctx context.Context, accountHoldingID string) (*model.Sale, error) {
	var s *model.Sale
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		ah, err := uc.holdingRepo.FindByIDForUpdate(ctx, accountHoldingID)
		if err != nil {
			return apperror.Wrap(err, "failed to get account holding")
		}
		if ah == nil {
			return apperror.NotFound("Account holding not found")
		}
		if ah.Status.IsTerminal() {
			return apperror.InvalidArgument("Account holding is already finalized")
		}
		if ah.ToPay.IsPositive() {
			return apperror.InvalidArgument("Account holding is not fully paid")
		}

		now := uc.clock.Now()
		net, iva := model.SplitIVA(ah.Total)
		s = &model.Sale{
			BaseModel:        model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			CustomerID:       ah.CustomerID,
			UserID:           ah.UserID,
			AccountHoldingID: &ah.ID,
			Date:             now,
			TotalWithIVA:     ah.Total,
			TotalWithoutIVA:  net,
			TotalIVA:         iva,
			Paid:             ah.Paid,
		}
		if err := uc.repo.Create(ctx, s); err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.Conflict("Account holding already has a sale")
			}
			return apperror.Wrap(err, "failed to create sale")
		}

		if _, err := uc.soldRepo.Reparent(ctx, model.HoldingOwner(ah.ID), model.SaleOwner(s.ID)); err != nil {
			return apperror.Wrap(err, "failed to move line items to sale")
		}
		s.Products, err = uc.soldRepo.ListByOwner(ctx, model.SaleOwner(s.ID))
		if err != nil {
			return apperror.Wrap(err, "failed to list sale products")
		}

		ah.Status = model.StatusPaid
		ah.SaleID = &s.ID
		ah.UpdatedAt = now
		if err := uc.holdingRepo.Update(ctx, ah); err != nil {
			return apperror.Wrap(err, "failed to update account holding")
		}

		database.AfterCommit(ctx, func(ctx context.Context) {
			uc.publishFinalized(ctx, s)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("account holding finalized",
		zap.String("account_holding_id", accountHoldingID),
		zap.String("sale_id", s.ID),
		zap.String("total", s.TotalWithIVA.StringFixed(2)),
	)
	return s, nil
}

type saleFinalizedPayload struct {
	SaleID           string          `json:"sale_id"`
	AccountHoldingID string          `json:"account_holding_id"`
	CustomerID       string          `json:"customer_id"`
	TotalWithIVA     decimal.Decimal `json:"total_with_iva"`
	TotalWithoutIVA  decimal.Decimal `json:"total_without_iva"`
	TotalIVA         decimal.Decimal `json:"total_iva"`
	Items            int             `json:"items"`
}

func (uc *saleUseCase) publishFinalized(ctx context.Context, s *model.Sale) {
	evt, err := broker.NewEvent(EventSaleFinalized, saleFinalizedPayload{
		SaleID:           s.ID,
		AccountHoldingID: *s.AccountHoldingID,
		CustomerID:       s.CustomerID,
		TotalWithIVA:     s.TotalWithIVA,
		TotalWithoutIVA:  s.TotalWithoutIVA,
		TotalIVA:         s.TotalIVA,
		Items:            len(s.Products),
	}, s.Date)
	if err == nil {
		err = uc.publisher.Publish(ctx, s.ID, evt)
	}
	if err != nil {
		uc.logger.Warn("failed to publish sale event", zap.String("sale_id", s.ID), zap.Error(err))
	}
}

func (uc *saleUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get sale")
	}
	if s == nil {
		return nil, apperror.NotFound("Sale not found")
	}

	s.Products, err = uc.soldRepo.ListByOwner(ctx, model.SaleOwner(s.ID))
	if err != nil {
		return nil, apperror.Wrap(err, "failed to list sale products")
	}
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	sales, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list sales")
	}
	return sales, count, nil
}
