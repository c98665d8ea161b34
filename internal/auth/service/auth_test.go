package service

import (
	"context"
	"errors"
	"testing"

	"laurent/internal/auth"
	autherrors "laurent/internal/auth/errors"
	"laurent/pkg/config"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/logger"
	"laurent/pkg/model"
)

type mockUserRepository struct {
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	findByIDFunc       func(ctx context.Context, id string) (*model.User, error)
	setLastPageFunc    func(ctx context.Context, id, page string) error
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, autherrors.ErrNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, autherrors.ErrNotFound
}

func (m *mockUserRepository) SetLastPage(ctx context.Context, id, page string) error {
	if m.setLastPageFunc != nil {
		return m.setLastPageFunc(ctx, id, page)
	}
	return nil
}

func (m *mockUserRepository) Ensure(ctx context.Context, user *model.User) error {
	return nil
}

func (m *mockUserRepository) DeleteAllExcept(ctx context.Context, keep string) (int64, error) {
	return 0, nil
}

func newTestService(repo *mockUserRepository) AuthService {
	return NewAuthService(repo, &config.Config{Log: logger.Discard()})
}

func adminUser(t *testing.T) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &model.User{
		ID:           "507f1f77bcf86cd799439011",
		Username:     "admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Name:         "Administrator",
		LastPage:     "/bookings",
	}
}

func TestLogin(t *testing.T) {
	user := adminUser(t)
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			if username == "admin" {
				return user, nil
			}
			return nil, autherrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	tests := []struct {
		name     string
		req      model.LoginRequest
		wantCode string
		wantMsg  string
	}{
		{name: "valid credentials", req: model.LoginRequest{Username: "admin", Password: "admin123"}},
		{name: "username is trimmed", req: model.LoginRequest{Username: " admin ", Password: "admin123"}},
		{name: "missing password", req: model.LoginRequest{Username: "admin"}, wantCode: apperrors.CodeInvalidInput, wantMsg: MsgMissingCredentials},
		{name: "missing username", req: model.LoginRequest{Password: "admin123"}, wantCode: apperrors.CodeInvalidInput, wantMsg: MsgMissingCredentials},
		{name: "wrong password", req: model.LoginRequest{Username: "admin", Password: "nope"}, wantCode: apperrors.CodeUnauthorized, wantMsg: MsgInvalidCredentials},
		{name: "unknown user", req: model.LoginRequest{Username: "ghost", Password: "admin123"}, wantCode: apperrors.CodeUnauthorized, wantMsg: MsgInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Login(context.Background(), &tt.req)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.Username != "admin" {
					t.Errorf("expected admin, got %q", got.Username)
				}
				return
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode || appErr.Message != tt.wantMsg {
				t.Errorf("expected %s %q, got %s %q", tt.wantCode, tt.wantMsg, appErr.Code, appErr.Message)
			}
		})
	}
}

func TestLogin_StorageError(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := newTestService(repo).Login(context.Background(), &model.LoginRequest{Username: "admin", Password: "x"})
	if !apperrors.HasCode(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSetLastPage(t *testing.T) {
	var gotID, gotPage string
	repo := &mockUserRepository{
		setLastPageFunc: func(ctx context.Context, id, page string) error {
			gotID, gotPage = id, page
			if id != "507f1f77bcf86cd799439011" {
				return autherrors.ErrNotFound
			}
			return nil
		},
	}
	svc := newTestService(repo)

	page, err := svc.SetLastPage(context.Background(), &model.PageRequest{UserID: "507f1f77bcf86cd799439011", Page: "/menu"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != "/menu" || gotPage != "/menu" || gotID != "507f1f77bcf86cd799439011" {
		t.Errorf("unexpected write: id=%q page=%q returned=%q", gotID, gotPage, page)
	}

	_, err = svc.SetLastPage(context.Background(), &model.PageRequest{UserID: "507f1f77bcf86cd799439011"})
	if appErr := apperrors.AsAppError(err); appErr.Message != MsgMissingUserOrPage {
		t.Errorf("expected %q, got %v", MsgMissingUserOrPage, err)
	}

	_, err = svc.SetLastPage(context.Background(), &model.PageRequest{UserID: "507f191e810c19729de860ea", Page: "/menu"})
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() != 404 || appErr.Message != MsgUserNotFound {
		t.Errorf("expected 404 %q, got %v", MsgUserNotFound, err)
	}
}

func TestGetLastPage(t *testing.T) {
	user := adminUser(t)
	repo := &mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, invalidIDError(id)
		},
	}
	svc := newTestService(repo)

	page, err := svc.GetLastPage(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != "/bookings" {
		t.Errorf("expected /bookings, got %q", page)
	}

	_, err = svc.GetLastPage(context.Background(), "not-an-id")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found for malformed id, got %v", err)
	}
}

func invalidIDError(id string) error {
	return errors.Join(autherrors.ErrInvalidID, errors.New(id))
}
