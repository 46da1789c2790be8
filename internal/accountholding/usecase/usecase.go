package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/cache"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/payment"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/soldproduct"
	"github.com/fekuna/omnipos-sales-service/internal/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repositories groups the stores the engine reads and writes.
type Repositories struct {
	AccountHoldings accountholding.Repository
	Customers       customer.Repository
	Users           user.Repository
	Products        product.Repository
	SoldProducts    soldproduct.Repository
	Payments        payment.Repository
}

type accountHoldingUseCase struct {
	repos   Repositories
	ledger  inventory.Ledger
	tx      database.Transactor
	locker  cache.Locker
	lockTTL time.Duration
	clock   clock.Clock
	logger  logger.ZapLogger
}

func NewAccountHoldingUseCase(
	repos Repositories,
	ledger inventory.Ledger,
	tx database.Transactor,
	locker cache.Locker,
	lockTTL time.Duration,
	clk clock.Clock,
	log logger.ZapLogger,
) accountholding.UseCase {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	return &accountHoldingUseCase{
		repos:   repos,
		ledger:  ledger,
		tx:      tx,
		locker:  locker,
		lockTTL: lockTTL,
		clock:   clk,
		logger:  log,
	}
}

func (uc *accountHoldingUseCase) CreateAccountHolding(ctx context.Context, input *dto.CreateAccountHoldingInput) (*model.AccountHolding, error) {
	opType, err := model.ParseOperationType(input.Type)
	if err != nil {
		return nil, apperror.InvalidArgument("Invalid operation type")
	}
	status := model.StatusPending
	if input.Status != "" {
		status, err = model.ParseAccountHoldingStatus(input.Status)
		if err != nil {
			return nil, apperror.InvalidArgument("Invalid status")
		}
		if status.IsTerminal() {
			return nil, apperror.InvalidArgument("An account holding cannot be created as PAID")
		}
	}
	if len(input.Products) == 0 {
		return nil, apperror.InvalidArgument("At least one product is required")
	}
	for _, li := range input.Products {
		if li.Quantity <= 0 {
			return nil, apperror.InvalidArgument("Quantity must be positive")
		}
	}

	c, err := uc.repos.Customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get customer")
	}
	if c == nil {
		return nil, apperror.NotFound("Customer not found")
	}
	u, err := uc.repos.Users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get user")
	}
	if u == nil {
		return nil, apperror.NotFound("User not found")
	}

	products, err := uc.loadProducts(ctx, input.Products)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	ah := &model.AccountHolding{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerID: c.ID,
		UserID:     u.ID,
		Date:       now,
		Paid:       decimal.Zero,
		Type:       opType,
		Status:     status,
	}

	lines := make([]model.SoldProduct, 0, len(input.Products))
	total := decimal.Zero
	for _, li := range input.Products {
		p := products[li.ProductID]
		priceType, err := model.ParsePriceType(li.PriceType)
		if err != nil {
			return nil, apperror.InvalidArgument("Invalid price type")
		}
		line, _ := model.PricedLine(p, li.Quantity, priceType)
		line.ID = uuid.New().String()
		line.LineOwner = model.HoldingOwner(ah.ID)
		line.CreatedAt = now
		lines = append(lines, line)
		total = total.Add(line.Total)
	}
	if !total.IsPositive() {
		return nil, apperror.InvalidArgument("Account holding total must be positive")
	}
	ah.Total = total
	ah.ToPay = total

	ref := inventory.Reference{Type: inventory.RefAccountHolding, ID: ah.ID}
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.repos.AccountHoldings.Create(ctx, ah); err != nil {
			return apperror.Wrap(err, "failed to create account holding")
		}
		for _, line := range byProduct(lines) {
			var err error
			switch opType {
			case model.OperationHolding:
				err = uc.ledger.Reserve(ctx, line.ProductID, line.Quantity, ref)
			case model.OperationAccount:
				err = uc.ledger.Deduct(ctx, line.ProductID, line.Quantity, ref)
			}
			if err != nil {
				return err
			}
		}
		if err := uc.repos.SoldProducts.CreateBatch(ctx, lines); err != nil {
			return apperror.Wrap(err, "failed to create line items")
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("account holding not created",
			zap.String("customer_id", input.CustomerID), zap.String("type", input.Type), zap.Error(err))
		return nil, err
	}

	ah.Customer = c
	ah.Products = lines
	ah.Payments = []model.Payment{}

	uc.logger.Info("account holding created",
		zap.String("account_holding_id", ah.ID),
		zap.String("type", string(ah.Type)),
		zap.String("total", ah.Total.StringFixed(2)),
	)
	return ah, nil
}

// loadProducts resolves every referenced product. A count mismatch is reported
// without naming the missing id.
func (uc *accountHoldingUseCase) loadProducts(ctx context.Context, items []dto.LineItemInput) (map[string]*model.Product, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, li := range items {
		if _, ok := seen[li.ProductID]; ok {
			continue
		}
		seen[li.ProductID] = struct{}{}
		ids = append(ids, li.ProductID)
	}

	found, err := uc.repos.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get products")
	}
	if len(found) != len(ids) {
		return nil, apperror.NotFound("One or more products not found")
	}

	products := make(map[string]*model.Product, len(found))
	for i := range found {
		if !found[i].IsActive {
			return nil, apperror.InvalidArgument("Product %s is inactive", found[i].Name)
		}
		products[found[i].ID] = &found[i]
	}
	return products, nil
}

func (uc *accountHoldingUseCase) GetAccountHolding(ctx context.Context, id string) (*model.AccountHolding, error) {
	ah, err := uc.repos.AccountHoldings.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get account holding")
	}
	if ah == nil {
		return nil, apperror.NotFound("Account holding not found")
	}
	if err := uc.loadRelations(ctx, ah); err != nil {
		return nil, err
	}
	return ah, nil
}

func (uc *accountHoldingUseCase) loadRelations(ctx context.Context, ah *model.AccountHolding) error {
	c, err := uc.repos.Customers.FindByID(ctx, ah.CustomerID)
	if err != nil {
		return apperror.Wrap(err, "failed to get customer")
	}
	ah.Customer = c

	owner := model.HoldingOwner(ah.ID)
	if ah.SaleID != nil {
		owner = model.SaleOwner(*ah.SaleID)
	}
	lines, err := uc.repos.SoldProducts.ListByOwner(ctx, owner)
	if err != nil {
		return apperror.Wrap(err, "failed to list line items")
	}
	if len(lines) > 0 {
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		products, err := uc.repos.Products.FindByIDs(ctx, ids)
		if err != nil {
			return apperror.Wrap(err, "failed to get products")
		}
		byID := make(map[string]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for i := range lines {
			lines[i].Product = byID[lines[i].ProductID]
		}
	}
	ah.Products = lines

	ah.Payments, err = uc.repos.Payments.ListByAccountHolding(ctx, ah.ID)
	if err != nil {
		return apperror.Wrap(err, "failed to list payments")
	}
	return nil
}

func (uc *accountHoldingUseCase) ListAccountHoldings(ctx context.Context, filters *dto.AccountHoldingFilters) ([]model.AccountHolding, int, error) {
	if filters.Type != "" {
		if _, err := model.ParseOperationType(filters.Type); err != nil {
			return nil, 0, apperror.InvalidArgument("Invalid operation type")
		}
	}
	if filters.Status != "" {
		if _, err := model.ParseAccountHoldingStatus(filters.Status); err != nil {
			return nil, 0, apperror.InvalidArgument("Invalid status")
		}
	}

	items, count, err := uc.repos.AccountHoldings.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list account holdings")
	}
	return items, count, nil
}

func (uc *accountHoldingUseCase) CancelReservation(ctx context.Context, id string) (*model.AccountHolding, error) {
	var snapshot *model.AccountHolding
	err := cache.WithLock(ctx, uc.locker, accountholding.LockKey(id), uc.lockTTL, uc.logger, func() error {
		return uc.tx.WithTx(ctx, func(ctx context.Context) error {
			ah, err := uc.repos.AccountHoldings.FindByIDForUpdate(ctx, id)
			if err != nil {
				return apperror.Wrap(err, "failed to get account holding")
			}
			if ah == nil {
				return apperror.NotFound("Account holding not found")
			}
			if ah.Type != model.OperationHolding {
				return apperror.InvalidArgument("Only HOLDING operations can be cancelled")
			}
			if ah.Status.IsTerminal() {
				return apperror.InvalidArgument("A paid account holding cannot be cancelled")
			}
			if err := uc.loadRelations(ctx, ah); err != nil {
				return err
			}

			if err := uc.repos.Payments.DeleteByAccountHolding(ctx, ah.ID); err != nil {
				return apperror.Wrap(err, "failed to delete payments")
			}
			ref := inventory.Reference{Type: inventory.RefAccountHolding, ID: ah.ID}
			for _, line := range byProduct(ah.Products) {
				if err := uc.ledger.Release(ctx, line.ProductID, line.Quantity, ref); err != nil {
					return err
				}
			}
			if err := uc.repos.SoldProducts.DeleteByOwner(ctx, model.HoldingOwner(ah.ID)); err != nil {
				return apperror.Wrap(err, "failed to delete line items")
			}
			if err := uc.repos.AccountHoldings.Delete(ctx, ah.ID); err != nil {
				return apperror.Wrap(err, "failed to delete account holding")
			}

			snapshot = ah
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("reservation cancelled",
		zap.String("account_holding_id", id),
		zap.Int("lines", len(snapshot.Products)),
		zap.Int("payments", len(snapshot.Payments)),
	)
	return snapshot, nil
}

// byProduct returns lines ordered by product id so concurrent operations take
// product row locks in the same order.
func byProduct(lines []model.SoldProduct) []model.SoldProduct {
	out := make([]model.SoldProduct, len(lines))
	copy(out, lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
