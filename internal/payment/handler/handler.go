package handler

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/payment"
	"github.com/fekuna/omnipos-sales-service/internal/payment/dto"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	uc     payment.UseCase
	logger logger.ZapLogger
}

func NewPaymentHandler(uc payment.UseCase, log logger.ZapLogger) *PaymentHandler {
	return &PaymentHandler{uc: uc, logger: log}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListPayments)
	r.Post("/", h.CreatePayment)
	r.Get("/{id}", h.GetPayment)
}

type createPaymentRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	Date             *time.Time      `json:"date"`
	AccountHoldingID string          `json:"accountHoldingId"`
	CustomerID       string          `json:"customerId"`
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	res, err := h.uc.CreatePayment(r.Context(), &dto.CreatePaymentInput{
		Amount:           req.Amount,
		AccountHoldingID: req.AccountHoldingID,
		CustomerID:       req.CustomerID,
		Date:             req.Date,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, res)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	payments, count, err := h.uc.ListPayments(r.Context(), &dto.PaymentFilters{
		AccountHoldingID: q.Get("accountHoldingId"),
		CustomerID:       q.Get("customerId"),
		Params:           p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(payments, count, p))
}
