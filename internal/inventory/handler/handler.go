package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes mounts the stock endpoints under the products router.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/low-stock", h.ListLowStock)
	r.Get("/damaged", h.ListDamaged)
	r.Post("/{id}/stock", h.AdjustStock)
	r.Get("/{id}/movements", h.ListMovements)
}

type adjustStockRequest struct {
	QuantityChange int    `json:"quantityChange"`
	Reason         string `json:"reason"`
	Type           string `json:"type"`
	ReferenceID    string `json:"referenceId"`
}

func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	input := &dto.AdjustStockInput{
		ProductID:      chi.URLParam(r, "id"),
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		MovementType:   model.MovementType(req.Type),
		ReferenceID:    req.ReferenceID,
	}
	if input.MovementType == model.MovementReceipt {
		input.ReferenceType = inventory.RefProviderOrder
	}

	p, err := h.uc.AdjustStock(r.Context(), input)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	items, count, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		ProductID:    chi.URLParam(r, "id"),
		MovementType: r.URL.Query().Get("type"),
		Params:       p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(items, count, p))
}

func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	items, count, err := h.uc.ListLowStock(r.Context(), p)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(items, count, p))
}

// ListDamaged lists damaged write-offs across every product, newest first.
func (h *InventoryHandler) ListDamaged(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	items, count, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		MovementType: string(model.MovementDamaged),
		Params:       p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(items, count, p))
}
