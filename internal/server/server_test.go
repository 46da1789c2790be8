package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	log := logger.NewNop()

	ok := NewRouter(Handlers{}, pingFunc(func(context.Context) error { return nil }), log)
	rec := httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down := NewRouter(Handlers{}, pingFunc(func(context.Context) error { return errors.New("down") }), log)
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	r := NewRouter(Handlers{}, nil, logger.NewNop())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_found"`)
}

func TestUnaryInterceptorMapsErrors(t *testing.T) {
	icpt := UnaryInterceptor(logger.NewNop())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Call"}

	_, err := icpt(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, apperror.NotFound("Account holding not found")
	})
	require.Error(t, err)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "Account holding not found", st.Message())

	_, err = icpt(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, errors.New("db exploded")
	})
	st, _ = status.FromError(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())
}
