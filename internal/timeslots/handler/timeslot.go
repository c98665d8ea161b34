package handler

import (
	"net/http"

	"laurent/internal/timeslots/service"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TimeSlotHandler struct {
	service service.TimeSlotService
	log     *logger.Logger
}

func NewTimeSlotHandler(service service.TimeSlotService, log *logger.Logger) *TimeSlotHandler {
	return &TimeSlotHandler{
		service: service,
		log:     log,
	}
}

func (h *TimeSlotHandler) GetAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	availability, err := h.service.GetAvailability(r.Context(), httputil.QueryParam(r, "date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TimeSlotHandler) SetAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := map[string]model.FlexBool{}
	if err := httputil.DecodeJSON(r, &raw); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.SetAvailability(r.Context(), httputil.QueryParam(r, "date"), model.SlotSettingsFrom(raw)); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteMessage(w, "Time slot settings saved successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "SetAvailability", "operation", "WriteMessage", "error", err)
	}
}

func (h *TimeSlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/time-slots/availability", h.GetAvailability)
	router.PUT("/api/time-slots/availability", h.SetAvailability)
}
