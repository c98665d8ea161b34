package service

import (
	"context"
	"errors"
	"strings"
	"time"

	customerserrors "laurent/internal/customers/errors"
	"laurent/internal/customers/repository"
	"laurent/internal/customers/validator"
	"laurent/pkg/config"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
	"laurent/pkg/sanitizer"
	"laurent/pkg/validation"
)

type CustomerService interface {
	Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error)
	GetAll(ctx context.Context) ([]*model.Customer, error)
	Update(ctx context.Context, id string, update *model.CustomerUpdate) (*model.Customer, error)
	Delete(ctx context.Context, id string) error
	// RecordVisit is the booking side effect. ctx may carry a transaction
	// session and is handed to the repository unchanged.
	RecordVisit(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error)
}

type customerService struct {
	repo      repository.CustomerRepository
	validator *validator.CustomerValidator
	cfg       *config.Config
}

func NewCustomerService(
	repo repository.CustomerRepository,
	validator *validator.CustomerValidator,
	cfg *config.Config,
) CustomerService {
	return &customerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *customerService) Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		Name:   sanitizer.NormalizeName(req.Name),
		Email:  sanitizer.NormalizeEmail(req.Email),
		Phone:  sanitizer.NormalizePhone(req.Phone),
		Visits: 1,
	}
	if req.Visits != nil {
		customer.Visits = *req.Visits
	}

	lastVisit := time.Now().UTC().Truncate(time.Millisecond)
	if strings.TrimSpace(req.LastVisit) != "" {
		parsed, err := model.ParseDate(req.LastVisit)
		if err != nil {
			return nil, apperrors.InvalidInput("lastVisit must be a valid date")
		}
		lastVisit = parsed
	}
	customer.LastVisit = &lastVisit

	if err := s.validate(customer); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, customerserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Customer with this email already exists")
		}
		s.cfg.Log.Error("Failed to create customer", "email", customer.Email, "error", err)
		return nil, apperrors.Storage("Failed to create customer", err)
	}

	s.cfg.Log.Info("Customer created successfully", "id", customer.ID)
	return customer, nil
}

func (s *customerService) GetAll(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list customers", "error", err)
		return nil, apperrors.Storage("Failed to fetch customers", err)
	}
	return customers, nil
}

func (s *customerService) Update(ctx context.Context, id string, update *model.CustomerUpdate) (*model.Customer, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, err)
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Customer update validation failed", "id", id, "error", err)
		return nil, validationError(err)
	}

	merged, err := mergeCustomerUpdate(existing, update)
	if err != nil {
		return nil, err
	}
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, customerserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Customer with this email already exists")
		}
		return nil, s.mapLookupError(id, err)
	}

	s.cfg.Log.Info("Customer updated successfully", "id", id)
	return merged, nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Customer ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(id, err)
	}

	s.cfg.Log.Info("Customer deleted successfully", "id", id)
	return nil
}

func (s *customerService) RecordVisit(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Customer email is required")
	}

	customer, err := s.repo.Upsert(ctx, email, sanitizer.NormalizeName(name), sanitizer.NormalizePhone(phone), visit)
	if err != nil {
		return nil, apperrors.Storage("Failed to record customer visit", err)
	}

	s.cfg.Log.Debug("Customer visit recorded", "email", email, "visits", customer.Visits)
	return customer, nil
}

// --- Helpers ---

func (s *customerService) validate(customer *model.Customer) error {
	if err := s.validator.Validate(customer); err != nil {
		s.cfg.Log.Warn("Customer validation failed", "error", err)
		return validationError(err)
	}
	return nil
}

func (s *customerService) mapLookupError(id string, err error) error {
	if errors.Is(err, customerserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Customer", id)
	}
	if errors.Is(err, customerserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid customer ID format")
	}
	s.cfg.Log.Error("Customer storage failure", "id", id, "error", err)
	return apperrors.Storage("Failed to update customer", err)
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Customer validation failed", verrs.Details())
	}
	return apperrors.Validation("Customer validation failed", map[string]any{"error": err.Error()})
}

func mergeCustomerUpdate(existing *model.Customer, update *model.CustomerUpdate) (*model.Customer, error) {
	merged := *existing

	if update.Name != nil {
		merged.Name = sanitizer.NormalizeName(*update.Name)
	}
	if update.Email != nil {
		merged.Email = sanitizer.NormalizeEmail(*update.Email)
	}
	if update.Phone != nil {
		merged.Phone = sanitizer.NormalizePhone(*update.Phone)
	}
	if update.Visits != nil {
		merged.Visits = *update.Visits
	}
	if update.LastVisit != nil && strings.TrimSpace(*update.LastVisit) != "" {
		parsed, err := model.ParseDate(*update.LastVisit)
		if err != nil {
			return nil, apperrors.InvalidInput("lastVisit must be a valid date")
		}
		merged.LastVisit = &parsed
	}

	return &merged, nil
}
