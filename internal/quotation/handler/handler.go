package handler

import (
	"net/http"

	holdingdto "github.com/fekuna/omnipos-sales-service/internal/accountholding/dto"
	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/quotation"
	"github.com/fekuna/omnipos-sales-service/internal/quotation/dto"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
)

type QuotationHandler struct {
	uc     quotation.UseCase
	logger logger.ZapLogger
}

func NewQuotationHandler(uc quotation.UseCase, log logger.ZapLogger) *QuotationHandler {
	return &QuotationHandler{uc: uc, logger: log}
}

func (h *QuotationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListQuotations)
	r.Post("/", h.CreateQuotation)
	r.Get("/{id}", h.GetQuotation)
	r.Post("/{id}/convert", h.ConvertQuotation)
}

type lineItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	PriceType string `json:"priceType"`
}

type createQuotationRequest struct {
	CustomerID string            `json:"customerId"`
	UserID     string            `json:"userId"`
	ValidDays  int               `json:"validDays"`
	Products   []lineItemRequest `json:"products"`
}

func (h *QuotationHandler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req createQuotationRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	input := &dto.CreateQuotationInput{
		CustomerID: req.CustomerID,
		UserID:     req.UserID,
		ValidDays:  req.ValidDays,
		Products:   make([]holdingdto.LineItemInput, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		input.Products = append(input.Products, holdingdto.LineItemInput{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			PriceType: p.PriceType,
		})
	}

	q, err := h.uc.CreateQuotation(r.Context(), input)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, q)
}

func (h *QuotationHandler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.uc.GetQuotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, q)
}

func (h *QuotationHandler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	items, count, err := h.uc.ListQuotations(r.Context(), &dto.QuotationFilters{
		CustomerID: q.Get("customerId"),
		Status:     q.Get("status"),
		Params:     p,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(items, count, p))
}

type convertQuotationRequest struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

func (h *QuotationHandler) ConvertQuotation(w http.ResponseWriter, r *http.Request) {
	var req convertQuotationRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	ah, err := h.uc.ConvertQuotation(r.Context(), chi.URLParam(r, "id"), &dto.ConvertQuotationInput{
		Type:   req.Type,
		UserID: req.UserID,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, ah)
}
