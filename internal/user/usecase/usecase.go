package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/database"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/user"
	"github.com/fekuna/omnipos-sales-service/internal/user/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRole = "CASHIER"

type userUseCase struct {
	repo   user.Repository
	clock  clock.Clock
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, clk clock.Clock, log logger.ZapLogger) user.UseCase {
	return &userUseCase{repo: repo, clock: clk, logger: log}
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Username) == "" {
		return nil, apperror.InvalidArgument("name and username are required")
	}

	existing, err := uc.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to check username")
	}
	if existing != nil {
		return nil, apperror.Conflict("username already exists")
	}

	role := strings.ToUpper(strings.TrimSpace(input.Role))
	if role == "" {
		role = defaultRole
	}

	now := uc.clock.Now()
	u := &model.User{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		Username:  input.Username,
		Role:      role,
		IsActive:  true,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("username already exists")
		}
		return nil, apperror.Wrap(err, "failed to create user")
	}

	uc.logger.Info("user created", zap.String("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get user")
	}
	if u == nil {
		return nil, apperror.NotFound("User not found")
	}
	return u, nil
}
