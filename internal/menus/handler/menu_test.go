package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"laurent/internal/menus/service"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/logger"
	"laurent/pkg/middleware"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMenuService struct {
	uploadFunc    func(ctx context.Context, identifier, originalName string, reader io.Reader) (*model.MenuDocument, error)
	openFunc      func(ctx context.Context, identifier string) (*model.MenuDocument, *os.File, error)
	setActiveFunc func(ctx context.Context, id, menuTitle string) error
}

func (m *mockMenuService) Upload(ctx context.Context, identifier, originalName string, reader io.Reader) (*model.MenuDocument, error) {
	return m.uploadFunc(ctx, identifier, originalName, reader)
}

func (m *mockMenuService) ListByCategory(ctx context.Context, menuTitle string) ([]*model.MenuDocument, error) {
	return nil, nil
}

func (m *mockMenuService) GetActive(ctx context.Context, identifier string) (*model.MenuDocument, error) {
	return nil, apperrors.NotFound("PDF")
}

func (m *mockMenuService) OpenActive(ctx context.Context, identifier string) (*model.MenuDocument, *os.File, error) {
	return m.openFunc(ctx, identifier)
}

func (m *mockMenuService) SetActive(ctx context.Context, id, menuTitle string) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, menuTitle)
	}
	return nil
}

func (m *mockMenuService) Deactivate(ctx context.Context, id string) error { return nil }

func (m *mockMenuService) Delete(ctx context.Context, id string) error { return nil }

func (m *mockMenuService) DeleteActive(ctx context.Context, identifier string) error { return nil }

func (m *mockMenuService) Catalog(ctx context.Context) []model.MenuItem { return nil }

func newRouter(svc service.MenuService) *httprouter.Router {
	router := httprouter.New()
	auth := middleware.NewAdminAuth("s3cret", logger.Discard())
	NewMenuHandler(svc, auth, 1<<20, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestUpload_Multipart(t *testing.T) {
	var gotIdentifier, gotName string
	var gotBody []byte
	svc := &mockMenuService{
		uploadFunc: func(ctx context.Context, identifier, originalName string, reader io.Reader) (*model.MenuDocument, error) {
			gotIdentifier, gotName = identifier, originalName
			gotBody, _ = io.ReadAll(reader)
			return &model.MenuDocument{ID: "doc1", Title: originalName, Filename: "stored.pdf", MimeType: model.PDFMimeType}, nil
		},
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("menuPdf", "dinner.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 body"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/menu/food_menu/pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "food_menu", gotIdentifier)
	assert.Equal(t, "dinner.pdf", gotName)
	assert.Equal(t, "%PDF-1.4 body", string(gotBody))

	var resp uploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "PDF uploaded successfully", resp.Message)
	assert.Equal(t, "doc1", resp.PDFID)
	assert.Equal(t, "stored.pdf", resp.PDFFile.Filename)
}

func TestUpload_MissingFile(t *testing.T) {
	svc := &mockMenuService{}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/menu/food_menu/pdf", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgNoFile)
}

func TestDownload_AttachmentHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stored.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 content"), 0o644))

	svc := &mockMenuService{
		openFunc: func(ctx context.Context, identifier string) (*model.MenuDocument, *os.File, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, nil, err
			}
			return &model.MenuDocument{Title: "Wine List.pdf", Filename: "stored.pdf", UpdatedAt: time.Now()}, f, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/menu/wine_menu/pdf", nil)
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.PDFMimeType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Wine List.pdf")
	assert.Equal(t, "%PDF-1.4 content", w.Body.String())
}

func TestSetActive_AdminOnly(t *testing.T) {
	var gotTitle string
	svc := &mockMenuService{
		setActiveFunc: func(ctx context.Context, id, menuTitle string) error {
			gotTitle = menuTitle
			return nil
		},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/menu-pdfs/doc1/set-active", strings.NewReader(`{"menuTitle":"Food Menu"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, gotTitle)

	req = httptest.NewRequest(http.MethodPut, "/api/menu-pdfs/doc1/set-active", strings.NewReader(`{"menuTitle":"Food Menu"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer s3cret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Food Menu", gotTitle)
	assert.Contains(t, w.Body.String(), "PDF set as active successfully")
}
