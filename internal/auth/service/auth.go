package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"laurent/internal/auth"
	autherrors "laurent/internal/auth/errors"
	"laurent/internal/auth/repository"
	"laurent/pkg/config"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
)

const (
	MsgMissingCredentials = "Missing credentials"
	MsgInvalidCredentials = "Invalid credentials"
	MsgMissingUserOrPage  = "Missing userId or page"
	MsgUserNotFound       = "User not found"
)

type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	SetLastPage(ctx context.Context, req *model.PageRequest) (string, error)
	GetLastPage(ctx context.Context, userID string) (string, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.InvalidInput(MsgMissingCredentials)
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			s.cfg.Log.Warn("Login rejected", "username", username, "reason", "unknown user")
			return nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		s.cfg.Log.Error("Failed to look up user", "username", username, "error", err)
		return nil, apperrors.Storage("Server error", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.cfg.Log.Warn("Login rejected", "username", username, "reason", "password mismatch")
		return nil, apperrors.Unauthorized(MsgInvalidCredentials)
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *authService) SetLastPage(ctx context.Context, req *model.PageRequest) (string, error) {
	userID := strings.TrimSpace(req.UserID)
	page := strings.TrimSpace(req.Page)
	if userID == "" || page == "" {
		return "", apperrors.InvalidInput(MsgMissingUserOrPage)
	}

	if err := s.repo.SetLastPage(ctx, userID, page); err != nil {
		return "", s.mapLookupError(userID, err)
	}
	return page, nil
}

func (s *authService) GetLastPage(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.FindByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return "", s.mapLookupError(userID, err)
	}
	return user.LastPage, nil
}

func (s *authService) mapLookupError(userID string, err error) error {
	if errors.Is(err, autherrors.ErrNotFound) || errors.Is(err, autherrors.ErrInvalidID) {
		return apperrors.New(apperrors.CodeNotFound, MsgUserNotFound, http.StatusNotFound)
	}
	s.cfg.Log.Error("User lookup failed", "user_id", userID, "error", err)
	return apperrors.Storage("Server error", err)
}
