package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pagination"
	"github.com/fekuna/omnipos-sales-service/internal/product"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/search", h.SearchProducts)
	r.Get("/{id}", h.GetProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

type productRequest struct {
	CategoryID     string          `json:"categoryId"`
	Brand          string          `json:"brand"`
	SKU            string          `json:"sku"`
	Barcode        string          `json:"barcode"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	WholesalePrice decimal.Decimal `json:"wholesalePrice"`
	TouristPrice   decimal.Decimal `json:"touristPrice"`
	PurchasePrice  decimal.Decimal `json:"purchasePrice"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"minStock"`
	IsActive       *bool           `json:"isActive"`
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &dto.CreateProductInput{
		CategoryID:     req.CategoryID,
		Brand:          req.Brand,
		SKU:            req.SKU,
		Barcode:        req.Barcode,
		Name:           req.Name,
		Description:    req.Description,
		SalePrice:      req.SalePrice,
		WholesalePrice: req.WholesalePrice,
		TouristPrice:   req.TouristPrice,
		PurchasePrice:  req.PurchasePrice,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("search"))
}

func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		response.JSON(w, http.StatusOK, pagination.New[model.Product](nil, 0, pagination.FromRequest(r)))
		return
	}
	h.list(w, r, q)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, search string) {
	p := pagination.FromRequest(r)
	q := r.URL.Query()
	filters := &dto.ProductFilters{
		CategoryID:  q.Get("categoryId"),
		IsActive:    response.BoolQuery(r, "isActive"),
		SearchQuery: search,
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
		Params:      p,
	}

	products, count, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, pagination.New(products, count, p))
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p, err := h.uc.UpdateProduct(r.Context(), &dto.UpdateProductInput{
		ID:             chi.URLParam(r, "id"),
		CategoryID:     req.CategoryID,
		Brand:          req.Brand,
		SKU:            req.SKU,
		Barcode:        req.Barcode,
		Name:           req.Name,
		Description:    req.Description,
		SalePrice:      req.SalePrice,
		WholesalePrice: req.WholesalePrice,
		TouristPrice:   req.TouristPrice,
		PurchasePrice:  req.PurchasePrice,
		MinStock:       req.MinStock,
		IsActive:       isActive,
	})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
