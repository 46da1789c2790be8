package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestGetUserID(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
	assert.Equal(t, "u-1", GetUserID(WithUserID(context.Background(), "u-1")))

	md := metadata.New(map[string]string{"x-user-id": "u-2"})
	assert.Equal(t, "u-2", GetUserID(metadata.NewIncomingContext(context.Background(), md)))
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "cashier-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "cashier-7", got)
}
