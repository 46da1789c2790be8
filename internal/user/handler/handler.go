package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-sales-service/internal/logger"
	"github.com/fekuna/omnipos-sales-service/internal/response"
	"github.com/fekuna/omnipos-sales-service/internal/user"
	"github.com/fekuna/omnipos-sales-service/internal/user/dto"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	uc     user.UseCase
	logger logger.ZapLogger
}

func NewUserHandler(uc user.UseCase, log logger.ZapLogger) *UserHandler {
	return &UserHandler{uc: uc, logger: log}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateUser)
	r.Get("/{id}", h.GetUser)
}

type createUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	u, err := h.uc.CreateUser(r.Context(), &dto.CreateUserInput{Name: req.Name, Username: req.Username, Role: req.Role})
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, u)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.uc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, u)
}
