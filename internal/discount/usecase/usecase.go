package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/discount"
	"github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type discountUseCase struct {
	repo        discount.Repository
	productRepo product.Repository
	clock       clock.Clock
	logger      logger.ZapLogger
}

func NewDiscountUseCase(repo discount.Repository, productRepo product.Repository, clk clock.Clock, log logger.ZapLogger) discount.UseCase {
	return &discountUseCase{repo: repo, productRepo: productRepo, clock: clk, logger: log}
}

func (uc *discountUseCase) CreateDiscount(ctx context.Context, input *dto.DiscountInput) (*model.Discount, error) {
	now := uc.clock.Now()
	d := &model.Discount{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		IsActive:  true,
	}
	if err := uc.apply(ctx, d, input); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, apperror.Wrap(err, "failed to create discount")
	}

	uc.logger.Info("discount created", zap.String("discount_id", d.ID), zap.String("type", string(d.Type)))
	return d, nil
}

func (uc *discountUseCase) GetDiscount(ctx context.Context, id string) (*model.Discount, error) {
	d, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get discount")
	}
	if d == nil {
		return nil, apperror.NotFound("Discount not found")
	}
	return d, nil
}

func (uc *discountUseCase) ListDiscounts(ctx context.Context, filters *dto.DiscountFilters) ([]model.Discount, int, error) {
	discounts, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list discounts")
	}
	return discounts, count, nil
}

func (uc *discountUseCase) UpdateDiscount(ctx context.Context, id string, input *dto.DiscountInput) (*model.Discount, error) {
	d, err := uc.GetDiscount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, d, input); err != nil {
		return nil, err
	}
	d.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, apperror.Wrap(err, "failed to update discount")
	}
	return d, nil
}

func (uc *discountUseCase) DeleteDiscount(ctx context.Context, id string) error {
	if _, err := uc.GetDiscount(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "failed to delete discount")
	}
	uc.logger.Info("discount deleted", zap.String("discount_id", id))
	return nil
}

func (uc *discountUseCase) CalculateDiscount(ctx context.Context, id string, input *dto.CalculateInput) (*discount.Calculation, error) {
	if input.Quantity <= 0 {
		return nil, apperror.InvalidArgument("Quantity must be positive")
	}
	d, err := uc.GetDiscount(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.ProductID != nil && input.ProductID != "" && *d.ProductID != input.ProductID {
		return nil, apperror.InvalidArgument("Discount does not apply to this product")
	}

	unitPrice := input.UnitPrice
	if unitPrice.IsZero() && input.ProductID != "" {
		p, err := uc.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return nil, apperror.Wrap(err, "failed to get product")
		}
		if p == nil {
			return nil, apperror.NotFound("Product not found")
		}
		unitPrice = p.SalePrice
	}
	if unitPrice.IsNegative() {
		return nil, apperror.InvalidArgument("Unit price must not be negative")
	}

	calc := discount.Calculate(d, unitPrice, input.Quantity, uc.clock.Now())
	return &calc, nil
}

// apply validates input and copies it onto d.
func (uc *discountUseCase) apply(ctx context.Context, d *model.Discount, input *dto.DiscountInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apperror.InvalidArgument("name is required")
	}
	t, err := model.ParseDiscountType(input.Type)
	if err != nil {
		return apperror.InvalidArgument("Invalid discount type")
	}

	switch t {
	case model.DiscountPercentage:
		if !input.Value.IsPositive() || input.Value.GreaterThan(decimal.NewFromInt(100)) {
			return apperror.InvalidArgument("percentage must be between 0 and 100")
		}
	case model.DiscountFixed:
		if !input.Value.IsPositive() {
			return apperror.InvalidArgument("value must be positive")
		}
	case model.DiscountBuyXGetY:
		if input.BuyQuantity <= 0 || input.GetQuantity <= 0 {
			return apperror.InvalidArgument("buyQuantity and getQuantity must be positive")
		}
	case model.DiscountBundle:
		if input.BuyQuantity <= 1 || !input.Value.IsPositive() {
			return apperror.InvalidArgument("a bundle needs buyQuantity above 1 and a positive price")
		}
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return apperror.InvalidArgument("endsAt must not be before startsAt")
	}

	var productID *string
	if input.ProductID != "" {
		p, err := uc.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			return apperror.Wrap(err, "failed to get product")
		}
		if p == nil {
			return apperror.NotFound("Product not found")
		}
		productID = &p.ID
	}

	d.Name = name
	d.Type = t
	d.Value = input.Value.Round(2)
	d.BuyQuantity = input.BuyQuantity
	d.GetQuantity = input.GetQuantity
	d.ProductID = productID
	d.StartsAt = input.StartsAt
	d.EndsAt = input.EndsAt
	if input.IsActive != nil {
		d.IsActive = *input.IsActive
	}
	return nil
}
