package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/category/dto"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree(t *testing.T) {
	ctx := context.Background()
	uc := NewCategoryUseCase(memory.NewStore().Categories(), clock.NewFixed(time.Now()), logger.NewNop())

	food, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Food", SortOrder: 2})
	require.NoError(t, err)
	drinks, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Drinks", SortOrder: 1})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Juice", ParentID: &drinks.ID})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Coffee", ParentID: &drinks.ID})
	require.NoError(t, err)

	tree, err := uc.CategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Drinks", tree[0].Name)
	assert.Equal(t, food.ID, tree[1].ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Coffee", tree[0].Children[0].Name)
	assert.Equal(t, "Juice", tree[0].Children[1].Name)
	assert.Empty(t, tree[1].Children)
}

func TestCategoryParentChecks(t *testing.T) {
	ctx := context.Background()
	uc := NewCategoryUseCase(memory.NewStore().Categories(), clock.NewSystem(), logger.NewNop())

	missing := "nope"
	_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Orphan", ParentID: &missing})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "  "})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	root, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Root"})
	require.NoError(t, err)
	child, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Child", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: root.ID, Name: "Root", ParentID: &child.ID, IsActive: true})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	require.NoError(t, uc.DeleteCategory(ctx, child.ID))
	_, err = uc.GetCategory(ctx, child.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
