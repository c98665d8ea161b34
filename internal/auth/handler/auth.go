package handler

import (
	"net/http"

	"laurent/internal/auth/service"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

type loginResponse struct {
	Success bool               `json:"success"`
	User    model.UserResponse `json:"user"`
}

type lastPageResponse struct {
	Success  bool   `json:"success"`
	LastPage string `json:"lastPage"`
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, loginResponse{Success: true, User: user.Response()}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) SetLastPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SetLastPage", err)
		return
	}

	page, err := h.service.SetLastPage(r.Context(), &req)
	if err != nil {
		h.writeError(w, "SetLastPage", err)
		return
	}

	if err := httputil.WriteSuccess(w, lastPageResponse{Success: true, LastPage: page}); err != nil {
		h.log.Error("failed to write success response", "handler", "SetLastPage", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) GetLastPage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, err := h.service.GetLastPage(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, "GetLastPage", err)
		return
	}

	if err := httputil.WriteSuccess(w, lastPageResponse{Success: true, LastPage: page}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetLastPage", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/user/page", h.SetLastPage)
	router.GET("/api/user/page/:userId", h.GetLastPage)
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
