package handler

import (
	"net/http"

	"laurent/internal/settings/service"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SettingsHandler struct {
	service service.SettingsService
	log     *logger.Logger
}

type settingsEnvelope struct {
	Success  bool            `json:"success"`
	Settings *model.Settings `json:"settings"`
}

func NewSettingsHandler(service service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log,
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.SettingsUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	settings, err := h.service.Update(r.Context(), &update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, settingsEnvelope{Success: true, Settings: settings}); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SettingsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/settings", h.Get)
	router.PUT("/api/settings", h.Update)
}
