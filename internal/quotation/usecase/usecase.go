package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	holdingdto "github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/quotation"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
	"github.com/fekuna/omnipos-sales-service/internal/soldproduct"
	"github.com/fekuna/omnipos-sales-service/internal/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repositories struct {
	Quotations   quotation.Repository
	Customers    customer.Repository
	Users        user.Repository
	Products     product.Repository
	SoldProducts soldproduct.Repository
}

type quotationUseCase struct {
	repos    Repositories
	holdings accountholding.UseCase
	tx       database.Transactor
	clock    clock.Clock
	logger   logger.ZapLogger
}

func NewQuotationUseCase(
	repos Repositories,
	holdings accountholding.UseCase,
	tx database.Transactor,
	clk clock.Clock,
	log logger.ZapLogger,
) quotation.UseCase {
	return &quotationUseCase{
		repos:    repos,
		holdings: holdings,
		tx:       tx,
		clock:    clk,
		logger:   log,
	}
}

func (uc *quotationUseCase) CreateQuotation(ctx context.Context, input *dto.CreateQuotationInput) (*model.Quotation, error) {
	if len(input.Products) == 0 {
		return nil, apperror.InvalidArgument("At least one product is required")
	}
	if input.ValidDays < 0 {
		return nil, apperror.InvalidArgument("validDays cannot be negative")
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

	days := input.ValidDays
	if days == 0 {
		days = dto.DefaultValidDays
	}
	now := uc.clock.Now()
	q := &model.Quotation{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CustomerID: c.ID,
		UserID:     u.ID,
		Date:       now,
		ValidUntil: now.Add(time.Duration(days) * 24 * time.Hour),
		Status:     model.QuotationOpen,
	}

	lines := make([]model.SoldProduct, 0, len(input.Products))
	total := decimal.Zero
	for _, li := range input.Products {
		priceType, err := model.ParsePriceType(li.PriceType)
		if err != nil {
			return nil, apperror.InvalidArgument("Invalid price type")
		}
		line, _ := model.PricedLine(products[li.ProductID], li.Quantity, priceType)
		line.ID = uuid.New().String()
		line.LineOwner = model.QuotationOwner(q.ID)
		line.CreatedAt = now
		lines = append(lines, line)
		total = total.Add(line.Total)
	}
	if !total.IsPositive() {
		return nil, apperror.InvalidArgument("Quotation total must be positive")
	}
	q.Total = total

	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.repos.Quotations.Create(ctx, q); err != nil {
			return apperror.Wrap(err, "failed to create quotation")
		}
		if err := uc.repos.SoldProducts.CreateBatch(ctx, lines); err != nil {
			return apperror.Wrap(err, "failed to create line items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	q.Customer = c
	q.Products = lines
	uc.logger.Info("quotation created",
		zap.String("quotation_id", q.ID),
		zap.String("total", q.Total.StringFixed(2)),
		zap.Time("valid_until", q.ValidUntil),
	)
	return q, nil
}

func (uc *quotationUseCase) loadProducts(ctx context.Context, items []holdingdto.LineItemInput) (map[string]*model.Product, error) {
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

func (uc *quotationUseCase) GetQuotation(ctx context.Context, id string) (*model.Quotation, error) {
	q, err := uc.repos.Quotations.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get quotation")
	}
	if q == nil {
		return nil, apperror.NotFound("Quotation not found")
	}

	q.Customer, err = uc.repos.Customers.FindByID(ctx, q.CustomerID)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get customer")
	}
	lines, err := uc.repos.SoldProducts.ListByOwner(ctx, model.QuotationOwner(q.ID))
	if err != nil {
		return nil, apperror.Wrap(err, "failed to list line items")
	}
	if len(lines) > 0 {
		ids := make([]string, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		products, err := uc.repos.Products.FindByIDs(ctx, ids)
		if err != nil {
			return nil, apperror.Wrap(err, "failed to get products")
		}
		byID := make(map[string]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for i := range lines {
			lines[i].Product = byID[lines[i].ProductID]
		}
	}
	q.Products = lines
	return q, nil
}

func (uc *quotationUseCase) ListQuotations(ctx context.Context, filters *dto.QuotationFilters) ([]model.Quotation, int, error) {
	if filters.Status != "" {
		if _, err := model.ParseQuotationStatus(filters.Status); err != nil {
			return nil, 0, apperror.InvalidArgument("Invalid status")
		}
	}
	items, count, err := uc.repos.Quotations.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list quotations")
	}
	return items, count, nil
}

func (uc *quotationUseCase) ConvertQuotation(ctx context.Context, id string, input *dto.ConvertQuotationInput) (*model.AccountHolding, error) {
	var ah *model.AccountHolding
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		q, err := uc.repos.Quotations.FindByIDForUpdate(ctx, id)
		if err != nil {
			return apperror.Wrap(err, "failed to get quotation")
		}
		if q == nil {
			return apperror.NotFound("Quotation not found")
		}
		if q.Status == model.QuotationConverted {
			return apperror.Conflict("Quotation was already converted")
		}
		now := uc.clock.Now()
		if q.Expired(now) {
			return apperror.Conflict("Quotation expired on %s", q.ValidUntil.Format(time.DateOnly))
		}

		lines, err := uc.repos.SoldProducts.ListByOwner(ctx, model.QuotationOwner(q.ID))
		if err != nil {
			return apperror.Wrap(err, "failed to list line items")
		}
		items := make([]holdingdto.LineItemInput, 0, len(lines))
		for _, l := range lines {
			items = append(items, holdingdto.LineItemInput{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				PriceType: string(l.PriceType),
			})
		}

		userID := input.UserID
		if userID == "" {
			userID = auth.GetUserID(ctx)
		}
		if userID == "" {
			userID = q.UserID
		}
		ah, err = uc.holdings.CreateAccountHolding(ctx, &holdingdto.CreateAccountHoldingInput{
			CustomerID: q.CustomerID,
			UserID:     userID,
			Type:       input.Type,
			Products:   items,
		})
		if err != nil {
			return err
		}

		q.Status = model.QuotationConverted
		q.AccountHoldingID = &ah.ID
		q.UpdatedAt = now
		if err := uc.repos.Quotations.Update(ctx, q); err != nil {
			return apperror.Wrap(err, "failed to update quotation")
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("quotation not converted", zap.String("quotation_id", id), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("quotation converted",
		zap.String("quotation_id", id),
		zap.String("account_holding_id", ah.ID),
		zap.String("type", string(ah.Type)),
	)
	return ah, nil
}
