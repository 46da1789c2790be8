// Package server assembles the HTTP router and the gRPC health server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/apperror"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers lists the feature handlers mounted by NewRouter. Inventory routes share
// the /products prefix.
type Handlers struct {
	Categories      RouteRegistrar
	Products        RouteRegistrar
	Inventory       RouteRegistrar
	Customers       RouteRegistrar
	Users           RouteRegistrar
	AccountHoldings RouteRegistrar
	Payments        RouteRegistrar
	Sales           RouteRegistrar
	Discounts       RouteRegistrar
	Quotations      RouteRegistrar
	CashRegister    RouteRegistrar
}

func NewRouter(h Handlers, db Pinger, log logger.ZapLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(log))
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)

	r.Get("/health", healthHandler(db, log))

	mount(r, "/categories", h.Categories)
	r.Route("/products", func(r chi.Router) {
		if h.Inventory != nil {
			h.Inventory.RegisterRoutes(r)
		}
		if h.Products != nil {
			h.Products.RegisterRoutes(r)
		}
	})
	mount(r, "/customers", h.Customers)
	mount(r, "/users", h.Users)
	mount(r, "/accountsholdings", h.AccountHoldings)
	mount(r, "/payments", h.Payments)
	mount(r, "/sales", h.Sales)
	mount(r, "/discounts", h.Discounts)
	mount(r, "/quotations", h.Quotations)
	mount(r, "/cashregister", h.CashRegister)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, log, apperror.NotFound("route %s not found", r.URL.Path))
	})
	return r
}

func mount(r chi.Router, prefix string, h RouteRegistrar) {
	if h == nil {
		return
	}
	r.Route(prefix, h.RegisterRoutes)
}

// AccessLog logs one line per request with its status and latency.
func AccessLog(log logger.ZapLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func healthHandler(db Pinger, log logger.ZapLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
