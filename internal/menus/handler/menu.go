package handler

import (
	"errors"
	"mime"
	"net/http"

	"laurent/internal/menus/service"
	apperrors "laurent/pkg/errors"
	httputil "laurent/pkg/http"
	"laurent/pkg/logger"
	"laurent/pkg/middleware"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const uploadField = "menuPdf"

type MenuHandler struct {
	service       service.MenuService
	auth          *middleware.AdminAuth
	maxUploadSize int64
	log           *logger.Logger
}

type uploadResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	PDFID   string         `json:"pdfId"`
	PDFFile *model.PDFFile `json:"pdfFile"`
}

type setActiveRequest struct {
	MenuTitle string `json:"menuTitle"`
}

func NewMenuHandler(service service.MenuService, auth *middleware.AdminAuth, maxUploadSize int64, log *logger.Logger) *MenuHandler {
	return &MenuHandler{
		service:       service,
		auth:          auth,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

func (h *MenuHandler) Catalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Catalog(r.Context())); err != nil {
		h.log.Error("failed to write success response", "handler", "Catalog", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MenuHandler) Upload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		h.writeError(w, "Upload", uploadError(err))
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(r.Context(), ps.ByName("id"), header.Filename, file)
	if err != nil {
		h.writeError(w, "Upload", err)
		return
	}

	resp := uploadResponse{
		Success: true,
		Message: "PDF uploaded successfully",
		PDFID:   doc.ID,
		PDFFile: doc.File(),
	}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "Upload", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MenuHandler) Download(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	doc, file, err := h.service.OpenActive(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Download", err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", model.PDFMimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Title}))
	http.ServeContent(w, r, doc.Filename, doc.UpdatedAt, file)
}

func (h *MenuHandler) DeleteActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteActive(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteActive", err)
		return
	}

	if err := httputil.WriteMessage(w, "PDF deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "DeleteActive", "operation", "WriteMessage", "error", err)
	}
}

func (h *MenuHandler) ListByCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	docs, err := h.service.ListByCategory(r.Context(), httputil.QueryParam(r, "menuTitle"))
	if err != nil {
		h.writeError(w, "ListByCategory", err)
		return
	}

	if docs == nil {
		docs = []*model.MenuDocument{}
	}
	if err := httputil.WriteSuccess(w, docs); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByCategory", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MenuHandler) SetActive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req setActiveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SetActive", err)
		return
	}

	if err := h.service.SetActive(r.Context(), ps.ByName("id"), req.MenuTitle); err != nil {
		h.writeError(w, "SetActive", err)
		return
	}

	if err := httputil.WriteMessage(w, "PDF set as active successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "SetActive", "operation", "WriteMessage", "error", err)
	}
}

func (h *MenuHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Deactivate(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Deactivate", err)
		return
	}

	if err := httputil.WriteMessage(w, "PDF removed from main successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Deactivate", "operation", "WriteMessage", "error", err)
	}
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, "PDF deleted successfully"); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *MenuHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/menu", h.Catalog)
	router.POST("/api/menu/:id/pdf", h.Upload)
	router.GET("/api/menu/:id/pdf", h.Download)
	router.DELETE("/api/menu/:id/pdf", h.DeleteActive)
	router.GET("/api/menu-pdfs", h.ListByCategory)
	router.PUT("/api/menu-pdfs/:id/set-active", h.auth.Require(h.SetActive))
	router.PUT("/api/menu-pdfs/:id/deactivate", h.auth.Require(h.Deactivate))
	router.DELETE("/api/menu-pdfs/:id", h.auth.Require(h.Delete))
}

func (h *MenuHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.TooLarge("File too large")
	}
	return apperrors.InvalidInput(service.MsgNoFile)
}
