package service

import (
	"context"
	"errors"
	"strings"

	"laurent/internal/settings/repository"
	"laurent/internal/settings/validator"
	"laurent/pkg/config"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
	"laurent/pkg/validation"
)

type SettingsService interface {
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, update *model.SettingsUpdate) (*model.Settings, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	validator *validator.SettingsValidator
	cfg       *config.Config
}

func NewSettingsService(repo repository.SettingsRepository, validator *validator.SettingsValidator, cfg *config.Config) SettingsService {
	return &settingsService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *settingsService) Get(ctx context.Context) (*model.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load settings", "error", err)
		return nil, apperrors.Storage("Failed to fetch settings", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, update *model.SettingsUpdate) (*model.Settings, error) {
	trim(update.Name)
	trim(update.Address)
	trim(update.Phone)

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Settings validation failed", "error", err)
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Settings validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("Settings validation failed", map[string]any{"error": err.Error()})
	}

	if !update.Empty() {
		if err := s.repo.Update(ctx, update); err != nil {
			s.cfg.Log.Error("Failed to update settings", "error", err)
			return nil, apperrors.Storage("Failed to update settings", err)
		}
		s.cfg.Log.Info("Settings updated")
	}

	return s.Get(ctx)
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
