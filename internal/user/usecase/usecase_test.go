package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/clock"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/storage/memory"
	"github.com/fekuna/omnipos-sales-service/internal/user/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	uc := NewUserUseCase(memory.NewStore().Users(), clock.NewSystem(), logger.NewNop())

	u, err := uc.CreateUser(ctx, &dto.CreateUserInput{Name: "Marta", Username: "marta"})
	require.NoError(t, err)
	assert.Equal(t, defaultRole, u.Role)
	assert.True(t, u.IsActive)

	_, err = uc.CreateUser(ctx, &dto.CreateUserInput{Name: "Other Marta", Username: "marta"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = uc.CreateUser(ctx, &dto.CreateUserInput{Name: "", Username: "nobody"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	got, err := uc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "marta", got.Username)

	_, err = uc.GetUser(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
