package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/broker"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventStockAdjusted = "StockAdjusted"

type inventoryUseCase struct {
	repo      inventory.Repository
	tx        database.Transactor
	locker    cache.Locker
	lockTTL   time.Duration
	publisher broker.Publisher
	clock     clock.Clock
	logger    logger.ZapLogger
}

func NewInventoryUseCase(
	repo inventory.Repository,
	tx database.Transactor,
	locker cache.Locker,
	lockTTL time.Duration,
	publisher broker.Publisher,
	clk clock.Clock,
	log logger.ZapLogger,
) inventory.UseCase {
	if publisher == nil {
		publisher = broker.NewNopPublisher()
	}
	if lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}
	return &inventoryUseCase{
		repo:      repo,
		tx:        tx,
		locker:    locker,
		lockTTL:   lockTTL,
		publisher: publisher,
		clock:     clk,
		logger:    log,
	}
}

// mutation computes the new stock and reserved values of a locked product.
type mutation func(p *model.Product) error

func (uc *inventoryUseCase) Reserve(ctx context.Context, productID string, quantity int, ref inventory.Reference) error {
	_, err := uc.apply(ctx, productID, quantity, model.MovementReserve, ref, "", func(p *model.Product) error {
		p.ReservedStock += quantity
		return nil
	})
	return err
}

func (uc *inventoryUseCase) Release(ctx context.Context, productID string, quantity int, ref inventory.Reference) error {
	_, err := uc.apply(ctx, productID, quantity, model.MovementRelease, ref, "", func(p *model.Product) error {
		p.ReservedStock = floorZero(p.ReservedStock - quantity)
		return nil
	})
	return err
}

func (uc *inventoryUseCase) Deduct(ctx context.Context, productID string, quantity int, ref inventory.Reference) error {
	_, err := uc.apply(ctx, productID, quantity, model.MovementSale, ref, "", func(p *model.Product) error {
		if p.Stock < quantity {
			return apperror.InvalidArgument("Insufficient stock for product %s", p.Name)
		}
		p.Stock -= quantity
		return nil
	})
	return err
}

func (uc *inventoryUseCase) Settle(ctx context.Context, productID string, quantity int, ref inventory.Reference) error {
	_, err := uc.apply(ctx, productID, quantity, model.MovementSettle, ref, "", func(p *model.Product) error {
		if p.Stock < quantity {
			return apperror.Conflict("Insufficient stock to settle product %s", p.Name)
		}
		p.Stock -= quantity
		p.ReservedStock = floorZero(p.ReservedStock - quantity)
		return nil
	})
	return err
}

// apply locks the product row, runs fn and records the movement, all in one transaction.
func (uc *inventoryUseCase) apply(ctx context.Context, productID string, quantity int, mt model.MovementType, ref inventory.Reference, notes string, fn mutation) (*model.Product, error) {
	if quantity <= 0 && mt != model.MovementAdjustment && mt != model.MovementDamaged {
		return nil, apperror.InvalidArgument("quantity must be positive")
	}

	var out *model.Product
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.GetProductForUpdate(ctx, productID)
		if err != nil {
			return apperror.Wrap(err, "failed to lock product")
		}
		if p == nil {
			return apperror.NotFound("product %s not found", productID)
		}

		stockBefore, reservedBefore := p.Stock, p.ReservedStock
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = uc.clock.Now()

		if err := uc.repo.UpdateStock(ctx, p); err != nil {
			return apperror.Wrap(err, "failed to update stock")
		}

		movement := &model.InventoryMovement{
			ID:             uuid.New().String(),
			ProductID:      p.ID,
			MovementType:   mt,
			Quantity:       quantity,
			StockBefore:    stockBefore,
			StockAfter:     p.Stock,
			ReservedBefore: reservedBefore,
			ReservedAfter:  p.ReservedStock,
			Notes:          notes,
			CreatedAt:      p.UpdatedAt,
		}
		if ref.Type != "" {
			movement.ReferenceType = &ref.Type
		}
		if ref.ID != "" {
			movement.ReferenceID = &ref.ID
		}
		if userID := auth.GetUserID(ctx); userID != "" {
			movement.CreatedBy = &userID
		}
		if err := uc.repo.LogMovement(ctx, movement); err != nil {
			return apperror.Wrap(err, "failed to log movement")
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("stock movement",
		zap.String("product_id", productID),
		zap.String("movement_type", string(mt)),
		zap.Int("quantity", quantity),
		zap.String("reference_type", ref.Type),
		zap.String("reference_id", ref.ID),
	)
	return out, nil
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Product, error) {
	p, _, err := uc.adjust(ctx, input, false)
	return p, err
}

func (uc *inventoryUseCase) ReceiveGoods(ctx context.Context, input *dto.ReceiveGoodsInput) (int, error) {
	if input.OrderID == "" {
		return 0, apperror.InvalidArgument("order id is required")
	}

	applied := 0
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return applied, apperror.InvalidArgument("received quantity must be positive")
		}
		_, ok, err := uc.adjust(ctx, &dto.AdjustStockInput{
			ProductID:      item.ProductID,
			QuantityChange: item.Quantity,
			Reason:         "Goods received",
			MovementType:   model.MovementReceipt,
			ReferenceType:  inventory.RefProviderOrder,
			ReferenceID:    input.OrderID,
		}, true)
		if err != nil {
			return applied, err
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// adjust applies a signed stock change under the product lock. With dedupe set, a change
// whose movement was already recorded for the same reference is skipped and reports false.
func (uc *inventoryUseCase) adjust(ctx context.Context, input *dto.AdjustStockInput, dedupe bool) (*model.Product, bool, error) {
	if input.QuantityChange == 0 {
		return nil, false, apperror.InvalidArgument("quantityChange must not be zero")
	}
	mt := input.MovementType
	if mt == "" {
		mt = model.MovementAdjustment
	}
	switch mt {
	case model.MovementAdjustment:
	case model.MovementReceipt:
		if input.QuantityChange < 0 {
			return nil, false, apperror.InvalidArgument("receipts must add stock")
		}
	case model.MovementDamaged:
		if input.QuantityChange > 0 {
			return nil, false, apperror.InvalidArgument("damaged write-offs must remove stock")
		}
		if strings.TrimSpace(input.Reason) == "" {
			return nil, false, apperror.InvalidArgument("a reason is required for damaged stock")
		}
	default:
		return nil, false, apperror.InvalidArgument("invalid movement type %q", mt)
	}

	ref := inventory.Reference{Type: input.ReferenceType, ID: input.ReferenceID}
	if ref.Type == "" {
		ref.Type = inventory.RefManual
	}

	lockKey := fmt.Sprintf("lock:inventory:%s", input.ProductID)

	var (
		p       *model.Product
		applied bool
	)
	err := cache.WithLock(ctx, uc.locker, lockKey, uc.lockTTL, uc.logger, func() error {
		return uc.tx.WithTx(ctx, func(ctx context.Context) error {
			if dedupe {
				exists, err := uc.repo.MovementExists(ctx, input.ProductID, mt, ref.Type, ref.ID)
				if err != nil {
					return apperror.Wrap(err, "failed to check movements")
				}
				if exists {
					return nil
				}
			}

			var err error
			p, err = uc.apply(ctx, input.ProductID, input.QuantityChange, mt, ref, input.Reason, func(p *model.Product) error {
				if p.Stock+input.QuantityChange < 0 {
					return apperror.InvalidArgument("Insufficient stock")
				}
				p.Stock += input.QuantityChange
				return nil
			})
			if err != nil {
				return err
			}
			applied = true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	if !applied {
		uc.logger.Info("goods receipt already applied",
			zap.String("product_id", input.ProductID), zap.String("reference_id", ref.ID))
		return nil, false, nil
	}

	uc.publishAdjusted(ctx, p, input.QuantityChange, mt, ref)
	return p, true, nil
}

type stockAdjustedPayload struct {
	ProductID      string `json:"product_id"`
	MovementType   string `json:"movement_type"`
	QuantityChange int    `json:"quantity_change"`
	Stock          int    `json:"stock"`
	ReservedStock  int    `json:"reserved_stock"`
	ReferenceType  string `json:"reference_type"`
	ReferenceID    string `json:"reference_id,omitempty"`
}

func (uc *inventoryUseCase) publishAdjusted(ctx context.Context, p *model.Product, change int, mt model.MovementType, ref inventory.Reference) {
	evt, err := broker.NewEvent(EventStockAdjusted, stockAdjustedPayload{
		ProductID:      p.ID,
		MovementType:   string(mt),
		QuantityChange: change,
		Stock:          p.Stock,
		ReservedStock:  p.ReservedStock,
		ReferenceType:  ref.Type,
		ReferenceID:    ref.ID,
	}, uc.clock.Now())
	if err == nil {
		err = uc.publisher.Publish(ctx, p.ID, evt)
	}
	if err != nil {
		uc.logger.Warn("failed to publish stock event", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	items, count, err := uc.repo.ListMovements(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list movements")
	}
	return items, count, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, p pagination.Params) ([]model.Product, int, error) {
	items, count, err := uc.repo.ListLowStock(ctx, p)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list low stock")
	}
	return items, count, nil
}

func (uc *inventoryUseCase) ReconcileReserved(ctx context.Context, apply bool) ([]dto.ReservedDrift, error) {
	var drifts []dto.ReservedDrift
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		recorded, err := uc.repo.RecordedReservations(ctx)
		if err != nil {
			return apperror.Wrap(err, "failed to read reserved stock")
		}
		expected, err := uc.repo.OpenReservations(ctx)
		if err != nil {
			return apperror.Wrap(err, "failed to read open reservations")
		}

		ids := make(map[string]struct{}, len(recorded)+len(expected))
		for id := range recorded {
			ids[id] = struct{}{}
		}
		for id := range expected {
			ids[id] = struct{}{}
		}
		for id := range ids {
			if recorded[id] != expected[id] {
				drifts = append(drifts, dto.ReservedDrift{ProductID: id, Recorded: recorded[id], Expected: expected[id]})
			}
		}
		sort.Slice(drifts, func(i, j int) bool { return drifts[i].ProductID < drifts[j].ProductID })

		if !apply {
			return nil
		}
		for _, d := range drifts {
			want := d.Expected
			_, err := uc.apply(ctx, d.ProductID, want-d.Recorded, model.MovementAdjustment,
				inventory.Reference{Type: inventory.RefManual}, "reserved stock reconciled",
				func(p *model.Product) error {
					p.ReservedStock = want
					return nil
				})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(drifts) > 0 {
		uc.logger.Warn("reserved stock drift detected", zap.Int("products", len(drifts)), zap.Bool("applied", apply))
	}
	return drifts, nil
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
