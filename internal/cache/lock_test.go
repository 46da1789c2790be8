package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLock(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	t.Run("nil locker runs fn", func(t *testing.T) {
		called := false
		err := WithLock(ctx, nil, "k", time.Second, log, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("releases lock after fn", func(t *testing.T) {
		l := NewLocalLocker()
		require.NoError(t, WithLock(ctx, l, "k", time.Second, log, func() error { return nil }))

		ok, err := l.AcquireLock(ctx, "k", "other", time.Second)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("propagates fn error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithLock(ctx, NewLocalLocker(), "k", time.Second, log, func() error { return boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("busy lock is unavailable", func(t *testing.T) {
		l := NewLocalLocker()
		ok, err := l.AcquireLock(ctx, "k", "holder", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		err = WithLock(ctx, l, "k", time.Second, log, func() error {
			t.Fatal("fn must not run while the lock is held")
			return nil
		})
		assert.True(t, apperror.Is(err, apperror.KindUnavailable))
	})
}

func TestLocalLockerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.clock = func() time.Time { return now }

	ok, _ := l.AcquireLock(ctx, "k", "a", time.Second)
	require.True(t, ok)

	ok, _ = l.AcquireLock(ctx, "k", "b", time.Second)
	assert.False(t, ok)

	now = now.Add(2 * time.Second)
	ok, _ = l.AcquireLock(ctx, "k", "b", time.Second)
	assert.True(t, ok)

	// stale owner cannot release the new holder's lock
	require.NoError(t, l.ReleaseLock(ctx, "k", "a"))
	ok, _ = l.AcquireLock(ctx, "k", "c", time.Second)
	assert.False(t, ok)
}
