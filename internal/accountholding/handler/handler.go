package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/accountholding"
	"github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
)

type AccountHoldingHandler struct {
	uc     accountholding.UseCase
	logger logger.ZapLogger
}

func NewAccountHoldingHandler(uc accountholding.UseCase, log logger.ZapLogger) *AccountHoldingHandler {
	return &AccountHoldingHandler{uc: uc, logger: log}
}

func (h *AccountHoldingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListAccountHoldings)
	r.Post("/", h.CreateAccountHolding)
	r.Get("/{id}", h.GetAccountHolding)
	r.Put("/{id}/cancel", h.CancelReservation)
}

type lineItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	PriceType string `json:"priceType"`
}

type createAccountHoldingRequest struct {
	CustomerID string            `json:"customerId"`
	UserID     string            `json:"userId"`
	Type       string            `json:"type"`
	Status     string            `json:"status"`
	Products   []lineItemRequest `json:"products"`
}

func (h *AccountHoldingHandler) CreateAccountHolding(w http.ResponseWriter, r *http.Request) {
	var req createAccountHoldingRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	input := &dto.CreateAccountHoldingInput{
		CustomerID: req.CustomerID,
		UserID:     req.UserID,
		Type:       req.Type,
		Status:     req.Status,
		Products:   make([]dto.LineItemInput, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		input.Products = append(input.Products, dto.LineItemInput{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			PriceType: p.PriceType,
		})
	}

	ah, err := h.uc.CreateAccountHolding(r.Context(), input)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, ah)
}

func (h *AccountHoldingHandler) GetAccountHolding(w http.ResponseWriter, r *http.Request) {
	ah, err := h.uc.GetAccountHolding(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, ah)
}

func (h *AccountHoldingHandler) ListAccountHoldings(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	items, count, err := h.uc.ListAccountHoldings(r.Context(), &dto.AccountHoldingFilters{
		CustomerID: q.Get("customerId"),
		Type:       q.Get("type"),
		Status:     q.Get("status"),
		Params:     p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(items, count, p))
}

func (h *AccountHoldingHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	ah, err := h.uc.CancelReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, ah)
}
