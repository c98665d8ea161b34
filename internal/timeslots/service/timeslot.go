package service

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"

	timeslotserrors "laurent/internal/timeslots/errors"
	"laurent/internal/timeslots/repository"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/logger"
	"laurent/pkg/model"
)

type TimeSlotService interface {
	GetAvailability(ctx context.Context, date string) (map[string]bool, error)
	SetAvailability(ctx context.Context, date string, slots map[string]bool) error
	// IsSlotAvailable reports the explicit policy value for the slot
	// containing hhmm on date. Slots the policy does not mention, or times
	// outside every canonical slot, are available.
	IsSlotAvailable(ctx context.Context, date string, hhmm string) (bool, error)
}

type timeSlotService struct {
	repo repository.TimeSlotRepository
	log  *logger.Logger
}

func NewTimeSlotService(repo repository.TimeSlotRepository, log *logger.Logger) TimeSlotService {
	return &timeSlotService{
		repo: repo,
		log:  log,
	}
}

func (s *timeSlotService) GetAvailability(ctx context.Context, date string) (map[string]bool, error) {
	key, err := parseDateKey(date)
	if err != nil {
		return nil, err
	}

	policy, err := s.resolve(ctx, key)
	if err != nil {
		if errors.Is(err, timeslotserrors.ErrNotFound) {
			policy, err = s.repo.CreateDefault(ctx)
			if err != nil {
				s.log.Error("Failed to materialize default time slot policy", "error", err)
				return nil, apperrors.Storage("Failed to fetch time slot availability", err)
			}
			s.log.Info("Created default time slot policy")
		} else {
			s.log.Error("Failed to fetch time slot policy", "date", date, "error", err)
			return nil, apperrors.Storage("Failed to fetch time slot availability", err)
		}
	}

	availability := make(map[string]bool, len(policy.SlotSettings))
	maps.Copy(availability, policy.SlotSettings)
	return availability, nil
}

func (s *timeSlotService) SetAvailability(ctx context.Context, date string, slots map[string]bool) error {
	key, err := parseDateKey(date)
	if err != nil {
		return err
	}

	cleaned := make(map[string]bool, len(slots))
	for label, available := range slots {
		label = strings.TrimSpace(label)
		if label == "" {
			return apperrors.Validation("Slot label cannot be empty", nil)
		}
		cleaned[label] = available
	}

	if err := s.repo.Upsert(ctx, key, cleaned); err != nil {
		s.log.Error("Failed to save time slot policy", "date", date, "error", err)
		return apperrors.Storage("Failed to update time slot availability", err)
	}

	s.log.Info("Time slot policy saved", "date", dateLabel(key), "slots", len(cleaned))
	return nil
}

func (s *timeSlotService) IsSlotAvailable(ctx context.Context, date string, hhmm string) (bool, error) {
	slot, ok := model.ContainingSlot(hhmm)
	if !ok {
		return true, nil
	}

	key, err := parseDateKey(date)
	if err != nil {
		return true, err
	}

	policy, err := s.resolve(ctx, key)
	if err != nil {
		if errors.Is(err, timeslotserrors.ErrNotFound) {
			return true, nil
		}
		return true, err
	}

	available, ok := policy.Availability(slot)
	if !ok {
		return true, nil
	}
	return available, nil
}

// resolve returns the date-specific policy, falling back to the global default.
func (s *timeSlotService) resolve(ctx context.Context, key *string) (*model.TimeSlotPolicy, error) {
	if key != nil {
		policy, err := s.repo.FindByDate(ctx, key)
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, timeslotserrors.ErrNotFound) {
			return nil, err
		}
	}
	return s.repo.FindByDate(ctx, nil)
}

func parseDateKey(date string) (*string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, nil
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput(timeslotserrors.ErrInvalidDate.Error())
	}
	return &date, nil
}

func dateLabel(key *string) string {
	if key == nil {
		return "global"
	}
	return *key
}
