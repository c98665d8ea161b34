package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"laurent/internal/customers/service"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/logger"
	"laurent/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockCustomerService struct {
	getAllFunc func(ctx context.Context) ([]*model.Customer, error)
	createFunc func(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockCustomerService) Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Customer{}, nil
}

func (m *mockCustomerService) GetAll(ctx context.Context) ([]*model.Customer, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockCustomerService) Update(ctx context.Context, id string, update *model.CustomerUpdate) (*model.Customer, error) {
	return &model.Customer{ID: id}, nil
}

func (m *mockCustomerService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCustomerService) RecordVisit(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error) {
	return nil, nil
}

var _ service.CustomerService = (*mockCustomerService)(nil)

func newRouter(svc service.CustomerService) *httprouter.Router {
	router := httprouter.New()
	NewCustomerHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestGetAll_RendersNeverForMissingVisit(t *testing.T) {
	visited := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	svc := &mockCustomerService{
		getAllFunc: func(ctx context.Context) ([]*model.Customer, error) {
			return []*model.Customer{
				{ID: "c1", Name: "John Doe", Email: "john@example.com", Visits: 3, LastVisit: &visited},
				{ID: "c2", Name: "Jane Smith", Email: "jane@example.com"},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/customers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []model.CustomerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(got))
	}
	if got[0].LastVisit != "2025-09-01" {
		t.Errorf("expected 2025-09-01, got %q", got[0].LastVisit)
	}
	if got[1].LastVisit != model.NeverVisited {
		t.Errorf("expected %q, got %q", model.NeverVisited, got[1].LastVisit)
	}
}

func TestCreate_ValidationErrorIs400(t *testing.T) {
	svc := &mockCustomerService{
		createFunc: func(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
			return nil, apperrors.Validation("customer validation failed", map[string]any{"email": "invalid"})
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"x","email":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDelete_MissingCustomerIs404(t *testing.T) {
	svc := &mockCustomerService{
		deleteFunc: func(ctx context.Context, id string) error {
			return apperrors.NotFoundWithID("Customer", id)
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/customers/abc", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
