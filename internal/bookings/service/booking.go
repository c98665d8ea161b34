package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	bookingserrors "laurent/internal/bookings/errors"
	"laurent/internal/bookings/repository"
	"laurent/internal/bookings/validator"
	customerserrors "laurent/internal/customers/errors"
	"laurent/internal/events"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
	"laurent/pkg/sanitizer"
	"laurent/pkg/validation"
)

const (
	MsgSlotUnavailable   = "Selected time slot is unavailable for the chosen date"
	MsgSlotAlreadyBooked = "Selected time slot is already booked"
	MsgSlotLocked        = "This time slot is currently being booked by another request. Please try again."
	MsgEmailDisabled     = "Email notifications are disabled in this environment."

	NoPeakHours  = "No data available"
	peakHourSize = 3
)

// SlotPolicy answers whether the admin has closed a slot.
type SlotPolicy interface {
	IsSlotAvailable(ctx context.Context, date string, hhmm string) (bool, error)
}

// VisitRecorder maintains the customer record touched by a booking.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error)
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context) ([]*model.Booking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	SendConfirmation(ctx context.Context, id string) (string, error)
	Analytics(ctx context.Context) (*model.BookingAnalytics, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	txManager mongotx.TransactionManager
	validator *validator.BookingValidator
	slots     SlotPolicy
	customers VisitRecorder
	events    events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	txManager mongotx.TransactionManager,
	validator *validator.BookingValidator,
	slots SlotPolicy,
	customers VisitRecorder,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		txManager: txManager,
		validator: validator,
		slots:     slots,
		customers: customers,
		events:    publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	booking, err := bookingFromRequest(req, s.cfg.DefaultBookingTime)
	if err != nil {
		return nil, err
	}
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	if err := s.checkSlotPolicy(ctx, booking); err != nil {
		return nil, err
	}

	// Acquire advisory lock to prevent race conditions
	lockID, err := s.acquireSlotLock(ctx, booking)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	transactional := s.txManager.Transactional()
	err = s.insertBooking(ctx, booking, transactional)
	if transactional && errors.Is(err, customerserrors.ErrDuplicateEmail) {
		// A concurrent first visit created the customer and aborted this
		// transaction. The rerun updates the existing record.
		s.cfg.Log.Info("Retrying booking after concurrent customer creation", "email", booking.CustomerEmail)
		booking.ID = ""
		err = s.insertBooking(ctx, booking, transactional)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "date", booking.DateString(), "time", booking.Time, "error", err)
		return nil, err
	}

	if !transactional {
		if _, err := s.customers.RecordVisit(ctx, booking.CustomerEmail, booking.CustomerName, booking.CustomerPhone, booking.Date); err != nil {
			s.cfg.Log.Warn("Booking stored but customer record was not updated",
				"id", booking.ID,
				"email", booking.CustomerEmail,
				"error", err,
			)
		}
	}

	s.events.BookingCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.DateString(),
		"time", booking.Time,
		"status", booking.Status,
	)
	return booking, nil
}

// insertBooking runs the conflict check and insert, plus the customer upsert
// when it can share the transaction.
func (s *bookingService) insertBooking(ctx context.Context, booking *model.Booking, transactional bool) error {
	return s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifySlotFree(txCtx, booking, ""); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrSlotTaken) {
				return apperrors.Conflict(MsgSlotAlreadyBooked)
			}
			return apperrors.Storage("Failed to create booking", err)
		}
		if transactional {
			if _, err := s.customers.RecordVisit(txCtx, booking.CustomerEmail, booking.CustomerName, booking.CustomerPhone, booking.Date); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, "Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Storage("Failed to fetch bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(id, "Failed to check booking existence", err)
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, validationError(err)
	}

	merged, err := s.mergeBookingUpdates(existing, updates)
	if err != nil {
		return nil, err
	}
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if merged.Status == model.StatusConfirmed {
			if err := s.verifySlotFree(txCtx, merged, id); err != nil {
				return err
			}
		}
		if err := s.repo.Update(txCtx, id, merged); err != nil {
			if errors.Is(err, bookingserrors.ErrSlotTaken) {
				return apperrors.Conflict(MsgSlotAlreadyBooked)
			}
			return s.mapLookupError(id, "Failed to update booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return merged, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapLookupError(id, "Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// SendConfirmation only verifies the booking exists; outbound email is not
// wired.
func (s *bookingService) SendConfirmation(ctx context.Context, id string) (string, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return "", err
	}
	s.cfg.Log.Info("Confirmation requested with email disabled", "id", id)
	return MsgEmailDisabled, nil
}

func (s *bookingService) Analytics(ctx context.Context) (*model.BookingAnalytics, error) {
	var total int64
	var average float64
	var counts []repository.TimeCount
	var errCount, errAvg, errTimes error
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.Count(ctx)
	}()

	go func() {
		defer wg.Done()
		average, errAvg = s.repo.AverageConfirmedGuests(ctx)
	}()

	go func() {
		defer wg.Done()
		counts, errTimes = s.repo.ConfirmedTimeCounts(ctx)
	}()

	wg.Wait()
	if err := errors.Join(errCount, errAvg, errTimes); err != nil {
		s.cfg.Log.Error("Failed to compute booking analytics", "error", err)
		return nil, apperrors.Storage("Failed to fetch analytics", err)
	}

	peakHours := make([]string, 0, peakHourSize)
	for _, c := range counts {
		if len(peakHours) == peakHourSize {
			break
		}
		peakHours = append(peakHours, To12Hour(c.Time))
	}
	if len(peakHours) == 0 {
		peakHours = append(peakHours, NoPeakHours)
	}

	return &model.BookingAnalytics{
		TotalBookings:    total,
		AveragePartySize: math.Round(average*10) / 10,
		PeakHours:        peakHours,
	}, nil
}

// To12Hour renders an HH:MM:SS time as "H:MM AM|PM".
func To12Hour(hhmmss string) string {
	hourPart, rest, _ := strings.Cut(hhmmss, ":")
	minute, _, _ := strings.Cut(rest, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return hhmmss
	}

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour > 12:
		display = hour - 12
	}
	return fmt.Sprintf("%d:%s %s", display, minute, meridiem)
}

// --- Helpers ---

// checkSlotPolicy rejects bookings in slots the admin closed. A failed policy
// lookup lets the booking through.
func (s *bookingService) checkSlotPolicy(ctx context.Context, booking *model.Booking) error {
	available, err := s.slots.IsSlotAvailable(ctx, booking.DateString(), booking.HHMM())
	if err != nil {
		s.cfg.Log.Warn("Time slot availability check failed, allowing booking",
			"date", booking.DateString(),
			"time", booking.Time,
			"error", err,
		)
		return nil
	}
	if !available {
		return apperrors.Validation(MsgSlotUnavailable, map[string]any{
			"date": booking.DateString(),
			"time": booking.Time,
		})
	}
	return nil
}

func (s *bookingService) verifySlotFree(ctx context.Context, booking *model.Booking, excludeID string) error {
	existing, err := s.repo.FindConfirmedAt(ctx, booking.Date, booking.Time, excludeID)
	if err != nil {
		return apperrors.Storage("Failed to check existing bookings", err)
	}
	if existing != nil {
		return apperrors.Conflict(MsgSlotAlreadyBooked)
	}
	return nil
}

func (s *bookingService) acquireSlotLock(ctx context.Context, booking *model.Booking) (string, error) {
	lockID := model.BookingLockID(booking.DateString(), booking.Time)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.BookingLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotLocked) {
			return "", apperrors.Conflict(MsgSlotLocked)
		}
		return "", apperrors.Storage("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

// releaseSlotLock runs even when the request context is already done.
func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(context.WithoutCancel(ctx), lockID)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError(err)
	}
	return nil
}

func (s *bookingService) mapLookupError(id, message string, err error) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Storage(message, err)
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) (*model.Booking, error) {
	merged := *existing

	if updates.CustomerName != nil {
		merged.CustomerName = sanitizer.NormalizeName(*updates.CustomerName)
	}
	if updates.CustomerEmail != nil {
		merged.CustomerEmail = sanitizer.NormalizeEmail(*updates.CustomerEmail)
	}
	if updates.CustomerPhone != nil {
		merged.CustomerPhone = sanitizer.NormalizePhone(*updates.CustomerPhone)
	}
	if updates.Date != nil && strings.TrimSpace(*updates.Date) != "" {
		date, err := NormalizeDate(*updates.Date)
		if err != nil {
			return nil, err
		}
		merged.Date = date
	}
	if updates.Time != nil && strings.TrimSpace(*updates.Time) != "" {
		merged.Time = NormalizeTime(*updates.Time, s.cfg.DefaultBookingTime)
	}
	if updates.Guests != nil {
		merged.Guests = updates.Guests.Int()
	}
	if updates.TableNumber != nil {
		merged.TableNumber = updates.TableNumber.Int()
	}
	if updates.Status != nil {
		merged.Status = *updates.Status
	}
	if updates.SpecialRequests != nil {
		merged.SpecialRequests = sanitizer.NormalizeText(*updates.SpecialRequests)
	}

	return &merged, nil
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}
