package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/go-chi/chi/v5"
)

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{uc: uc, logger: log}
}

// RegisterRoutes exposes sales read-only; they are only created by settling an account holding.
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListSales)
	r.Get("/{id}", h.GetSale)
}

func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, s)
}

func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	from, err := response.TimeQuery(r, "from")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	to, err := response.TimeQuery(r, "to")
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	p := pagination.FromRequest(r)
	sales, count, err := h.uc.ListSales(r.Context(), &dto.SaleFilters{
		CustomerID: r.URL.Query().Get("customerId"),
		From:       from,
		To:         to,
		Params:     p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(sales, count, p))
}
