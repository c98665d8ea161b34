package handler

import (
	"net/http"

	"laurent/internal/customers/service"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

type customerEnvelope struct {
	Success  bool            `json:"success"`
	Customer *model.Customer `json:"customer"`
}

func NewCustomerHandler(service service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		log:     log,
	}
}

func (h *CustomerHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customers, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	response := make([]model.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		response = append(response, c.Response())
	}

	if err := httputil.WriteSuccess(w, response); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CustomerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	customer, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteSuccess(w, customerEnvelope{Success: true, Customer: customer}); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.CustomerUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	customer, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, customerEnvelope{Success: true, Customer: customer}); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteSuccess(w, httputil.MessageResponse{Success: true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *CustomerHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *CustomerHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/customers", h.GetAll)
	router.POST("/api/customers", h.Create)
	router.PUT("/api/customers/:id", h.Update)
	router.DELETE("/api/customers/:id", h.Delete)
}
