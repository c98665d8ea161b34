package handler

import (
	"net/http"

	"laurent/internal/admin/service"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
	"laurent/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type AdminHandler struct {
	service service.AdminService
	auth    *middleware.AdminAuth
	log     *logger.Logger
}

type clearResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Cleared *service.ClearResult `json:"cleared"`
}

func NewAdminHandler(service service.AdminService, auth *middleware.AdminAuth, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result, err := h.service.Clear(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Clear", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp := clearResponse{Success: true, Message: service.MsgCleared, Cleared: result}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Clear", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/admin/clear", h.auth.Require(h.Clear))
}
