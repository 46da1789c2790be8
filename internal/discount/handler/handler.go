package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/discount"
	"github.com/fekuna/omnipos-sales-service/internal/discount/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type DiscountHandler struct {
	uc     discount.UseCase
	logger logger.ZapLogger
}

func NewDiscountHandler(uc discount.UseCase, log logger.ZapLogger) *DiscountHandler {
	return &DiscountHandler{uc: uc, logger: log}
}

func (h *DiscountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListDiscounts)
	r.Post("/", h.CreateDiscount)
	r.Get("/{id}", h.GetDiscount)
	r.Put("/{id}", h.UpdateDiscount)
	r.Delete("/{id}", h.DeleteDiscount)
	r.Post("/{id}/calculate", h.CalculateDiscount)
}

type discountRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	BuyQuantity int             `json:"buyQuantity"`
	GetQuantity int             `json:"getQuantity"`
	ProductID   string          `json:"productId"`
	StartsAt    *time.Time      `json:"startsAt"`
	EndsAt      *time.Time      `json:"endsAt"`
	IsActive    *bool           `json:"isActive"`
}

func (req *discountRequest) input() *dto.DiscountInput {
	return &dto.DiscountInput{
		Name:        req.Name,
		Type:        req.Type,
		Value:       req.Value,
		BuyQuantity: req.BuyQuantity,
		GetQuantity: req.GetQuantity,
		ProductID:   req.ProductID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		IsActive:    req.IsActive,
	}
}

func (h *DiscountHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	d, err := h.uc.CreateDiscount(r.Context(), req.input())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, d)
}

func (h *DiscountHandler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.GetDiscount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, d)
}

func (h *DiscountHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	discounts, count, err := h.uc.ListDiscounts(r.Context(), &dto.DiscountFilters{
		ProductID: r.URL.Query().Get("productId"),
		IsActive:  response.BoolQuery(r, "isActive"),
		Params:    p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(discounts, count, p))
}

func (h *DiscountHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	d, err := h.uc.UpdateDiscount(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, d)
}

func (h *DiscountHandler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteDiscount(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type calculateRequest struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func (h *DiscountHandler) CalculateDiscount(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	calc, err := h.uc.CalculateDiscount(r.Context(), chi.URLParam(r, "id"), &dto.CalculateInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, calc)
}
