package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/cashregister"
	"github.com/fekuna/omnipos-sales-service/internal/cashregister/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CashRegisterHandler struct {
	uc     cashregister.UseCase
	logger logger.ZapLogger
}

func NewCashRegisterHandler(uc cashregister.UseCase, log logger.ZapLogger) *CashRegisterHandler {
	return &CashRegisterHandler{uc: uc, logger: log}
}

func (h *CashRegisterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.ListSessions)
	r.Post("/sessions", h.OpenSession)
	r.Get("/sessions/current", h.CurrentSession)
	r.Get("/sessions/{id}", h.GetSession)
	r.Post("/sessions/{id}/movements", h.RecordMovement)
	r.Put("/sessions/{id}/close", h.CloseSession)
}

type openSessionRequest struct {
	UserID        string          `json:"userId"`
	OpeningAmount decimal.Decimal `json:"openingAmount"`
}

func (h *CashRegisterHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	s, err := h.uc.OpenSession(r.Context(), &dto.OpenSessionInput{
		UserID:        req.UserID,
		OpeningAmount: req.OpeningAmount,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, s)
}

func (h *CashRegisterHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

func (h *CashRegisterHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.CurrentSession(r.Context())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

func (h *CashRegisterHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	items, count, err := h.uc.ListSessions(r.Context(), &dto.SessionFilters{
		UserID: q.Get("userId"),
		Status: q.Get("status"),
		Params: p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(items, count, p))
}

type movementRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (h *CashRegisterHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	m, err := h.uc.RecordMovement(r.Context(), chi.URLParam(r, "id"), &dto.MovementInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, m)
}

type closeSessionRequest struct {
	CountedAmount *decimal.Decimal `json:"countedAmount"`
	Notes         string           `json:"notes"`
}

func (h *CashRegisterHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	var req closeSessionRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	report, err := h.uc.CloseSession(r.Context(), chi.URLParam(r, "id"), &dto.CloseSessionInput{
		CountedAmount: req.CountedAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
