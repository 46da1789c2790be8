package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type customerUseCase struct {
	repo   customer.Repository
	clock  clock.Clock
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, clk clock.Clock, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{repo: repo, clock: clk, logger: log}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.InvalidArgument("name is required")
	}

	now := uc.clock.Now()
	c := &model.Customer{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:           input.Name,
		Email:          optional(input.Email),
		Phone:          optional(input.Phone),
		DocumentNumber: optional(input.DocumentNumber),
		Address:        optional(input.Address),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, apperror.Wrap(err, "failed to create customer")
	}

	uc.logger.Info("customer created", zap.String("customer_id", c.ID))
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get customer")
	}
	if c == nil {
		return nil, apperror.NotFound("Customer not found")
	}
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	customers, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list customers")
	}
	return customers, count, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
