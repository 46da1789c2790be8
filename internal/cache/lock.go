package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts   = 3
	lockRetryDelay = 100 * time.Millisecond
)

// Locker is a named mutual-exclusion lock with an owner token.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

// WithLock runs fn while holding key. A nil locker runs fn unguarded.
func WithLock(ctx context.Context, l Locker, key string, ttl time.Duration, log logger.ZapLogger, fn func() error) error {
	if l == nil {
		return fn()
	}

	value := uuid.New().String()
	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := l.AcquireLock(ctx, key, value, ttl)
		if err != nil {
			log.Error("failed to acquire lock", zap.String("key", key), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	if !acquired {
		return apperror.Unavailable("system busy, please try again later", nil)
	}

	defer func() {
		if err := l.ReleaseLock(context.Background(), key, value); err != nil {
			log.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()

	return fn()
}

// LocalLocker is an in-process Locker for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localLock
	clock func() time.Time
}

type localLock struct {
	value   string
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localLock), clock: time.Now}
}

func (l *LocalLocker) AcquireLock(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return false, nil
	}
	l.held[key] = localLock{value: value, expires: now.Add(ttl)}
	return true, nil
}

func (l *LocalLocker) ReleaseLock(_ context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.held[key]; ok && cur.value == value {
		delete(l.held, key)
	}
	return nil
}
