package database

import (
	"context"
	"sync"
)

type hooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// BeginHooks returns a context that collects AfterCommit callbacks and a function
// that runs them in registration order. Transactors call it for the outermost unit of work.
func BeginHooks(ctx context.Context) (context.Context, func(ctx context.Context)) {
	h := &commitHooks{}
	return context.WithValue(ctx, hooksKey{}, h), func(ctx context.Context) {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
}

// AfterCommit schedules fn to run once the outermost transaction in ctx commits.
// It is dropped on rollback. Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	h, ok := ctx.Value(hooksKey{}).(*commitHooks)
	if !ok {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}
