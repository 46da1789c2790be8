package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/category"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	clock  clock.Clock
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, clk clock.Clock, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		clock:  clk,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.InvalidArgument("name is required")
	}
	if err := uc.checkParent(ctx, "", input.ParentID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID:    emptyToNil(input.ParentID),
		Name:        input.Name,
		Description: &input.Description,
		ImageURL:    &input.ImageURL,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, apperror.Wrap(err, "failed to create category")
	}

	uc.logger.Info("category created", zap.String("category_id", cat.ID))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to get category")
	}
	if cat == nil {
		return nil, apperror.NotFound("category not found")
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "failed to list categories")
	}
	return categories, count, nil
}

func (uc *categoryUseCase) CategoryTree(ctx context.Context) ([]model.Category, error) {
	active := true
	all, _, err := uc.repo.FindAll(ctx, &dto.CategoryFilters{IsActive: &active})
	if err != nil {
		return nil, apperror.Wrap(err, "failed to list categories")
	}
	return buildTree(all), nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.InvalidArgument("name is required")
	}
	if err := uc.checkParent(ctx, cat.ID, input.ParentID); err != nil {
		return nil, err
	}

	cat.Name = input.Name
	cat.Description = &input.Description
	cat.ImageURL = &input.ImageURL
	cat.SortOrder = input.SortOrder
	cat.IsActive = input.IsActive
	cat.ParentID = emptyToNil(input.ParentID)
	cat.UpdatedAt = uc.clock.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, apperror.Wrap(err, "failed to update category")
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uc.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "failed to delete category")
	}
	return nil
}

// checkParent verifies parentID exists and that attaching id under it keeps the tree acyclic.
func (uc *categoryUseCase) checkParent(ctx context.Context, id string, parentID *string) error {
	if parentID == nil || *parentID == "" {
		return nil
	}

	cur := *parentID
	for depth := 0; cur != ""; depth++ {
		if cur == id {
			return apperror.InvalidArgument("category cannot be its own ancestor")
		}
		if depth > 64 {
			return apperror.InvalidArgument("category tree is too deep")
		}
		parent, err := uc.repo.FindByID(ctx, cur)
		if err != nil {
			return apperror.Wrap(err, "failed to get parent category")
		}
		if parent == nil {
			if cur == *parentID {
				return apperror.NotFound("parent category not found")
			}
			return nil
		}
		cur = ""
		if parent.ParentID != nil {
			cur = *parent.ParentID
		}
	}
	return nil
}

func buildTree(all []model.Category) []model.Category {
	byParent := make(map[string][]model.Category)
	ids := make(map[string]bool, len(all))
	for _, c := range all {
		ids[c.ID] = true
	}
	for _, c := range all {
		parent := ""
		if c.ParentID != nil && ids[*c.ParentID] {
			parent = *c.ParentID
		}
		byParent[parent] = append(byParent[parent], c)
	}

	var attach func(parent string) []model.Category
	attach = func(parent string) []model.Category {
		nodes := byParent[parent]
		sort.SliceStable(nodes, func(i, j int) bool {
			if nodes[i].SortOrder != nodes[j].SortOrder {
				return nodes[i].SortOrder < nodes[j].SortOrder
			}
			return nodes[i].Name < nodes[j].Name
		})
		for i := range nodes {
			nodes[i].Children = attach(nodes[i].ID)
		}
		return nodes
	}
	return attach("")
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
