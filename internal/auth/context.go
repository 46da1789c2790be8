package auth

import (
	"context"
	"net/http"

	"google.golang.org/grpc/metadata"
)

const (
	// UserIDHeader carries the id of the cashier acting on a request.
	UserIDHeader = "X-User-ID"
	userIDMDKey  = "x-user-id"
)

type actorKey struct{}

// WithUserID attaches the acting user id to ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, userID)
}

// GetUserID returns the acting user id from ctx, falling back to gRPC metadata.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(actorKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(userIDMDKey); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// Middleware copies the X-User-ID header into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(UserIDHeader); id != "" {
			r = r.WithContext(WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
