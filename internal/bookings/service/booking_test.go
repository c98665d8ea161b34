package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingserrors "laurent/internal/bookings/errors"
	"laurent/internal/bookings/repository"
	"laurent/internal/bookings/validator"
	customerserrors "laurent/internal/customers/errors"
	"laurent/internal/events"
	"laurent/pkg/config"
	mongotx "laurent/pkg/db/mongo"
	apperrors "laurent/pkg/errors"
	"laurent/pkg/logger"
	"laurent/pkg/model"
)

// ────────────────────────────────────────────────
// Fakes
// ────────────────────────────────────────────────

type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	nextID   int

	findConfirmedErr error
	countFunc        func(ctx context.Context) (int64, error)
	averageFunc      func(ctx context.Context) (float64, error)
	timeCountsFunc   func(ctx context.Context) ([]repository.TimeCount, error)
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: map[string]*model.Booking{}}
}

func (m *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	booking.ID = fmt.Sprintf("b%d", m.nextID)
	stored := *booking
	m.bookings[booking.ID] = &stored
	return nil
}

func (m *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memoryBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range m.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (m *memoryBookingRepository) FindConfirmedAt(ctx context.Context, date time.Time, hhmmss string, excludeID string) (*model.Booking, error) {
	if m.findConfirmedErr != nil {
		return nil, m.findConfirmedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.bookings {
		if id != excludeID && b.Status == model.StatusConfirmed && b.Date.Equal(date) && b.Time == hhmmss {
			return b, nil
		}
	}
	return nil, nil
}

func (m *memoryBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	stored := *booking
	m.bookings[id] = &stored
	return nil
}

func (m *memoryBookingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memoryBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return int64(len(m.bookings)), nil
}

func (m *memoryBookingRepository) AverageConfirmedGuests(ctx context.Context) (float64, error) {
	if m.averageFunc != nil {
		return m.averageFunc(ctx)
	}
	return 0, nil
}

func (m *memoryBookingRepository) ConfirmedTimeCounts(ctx context.Context) ([]repository.TimeCount, error) {
	if m.timeCountsFunc != nil {
		return m.timeCountsFunc(ctx)
	}
	return nil, nil
}

type memoryLockRepository struct {
	mu    sync.Mutex
	held  map[string]bool
	freed []string
}

func newMemoryLockRepository() *memoryLockRepository {
	return &memoryLockRepository{held: map[string]bool{}}
}

func (m *memoryLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[lock.ID] {
		return nil, bookingserrors.ErrSlotLocked
	}
	m.held[lock.ID] = true
	return lock, nil
}

func (m *memoryLockRepository) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, lockID)
	m.freed = append(m.freed, lockID)
	return nil
}

type stubSlotPolicy struct {
	isSlotAvailableFunc func(ctx context.Context, date string, hhmm string) (bool, error)
}

func (s *stubSlotPolicy) IsSlotAvailable(ctx context.Context, date string, hhmm string) (bool, error) {
	if s.isSlotAvailableFunc != nil {
		return s.isSlotAvailableFunc(ctx, date, hhmm)
	}
	return true, nil
}

type recordingVisits struct {
	mu       sync.Mutex
	visits   map[string]int
	err      error
	failOnce error
	calls    int
}

func (r *recordingVisits) RecordVisit(ctx context.Context, email, name, phone string, visit time.Time) (*model.Customer, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failOnce != nil {
		err := r.failOnce
		r.failOnce = nil
		return nil, err
	}
	if r.visits == nil {
		r.visits = map[string]int{}
	}
	r.visits[email]++
	return &model.Customer{Email: email, Name: name, Visits: r.visits[email], LastVisit: &visit}, nil
}

// transactionalManager runs the callback inline but reports itself as
// transactional so the customer upsert joins the unit of work.
type transactionalManager struct{}

func (transactionalManager) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func (transactionalManager) Transactional() bool {
	return true
}

type fixture struct {
	repo    *memoryBookingRepository
	locks   *memoryLockRepository
	slots   *stubSlotPolicy
	visits  *recordingVisits
	service BookingService
}

func newFixture(tx mongotx.TransactionManager) *fixture {
	log := logger.Discard()
	cfg := &config.Config{
		Log:                log,
		DefaultBookingTime: "19:30:00",
		MaxGuests:          20,
		BookingLockTTL:     10 * time.Second,
	}
	f := &fixture{
		repo:   newMemoryBookingRepository(),
		locks:  newMemoryLockRepository(),
		slots:  &stubSlotPolicy{},
		visits: &recordingVisits{},
	}
	f.service = NewBookingService(
		f.repo,
		f.locks,
		tx,
		validator.NewBookingValidator(log, cfg.MaxGuests),
		f.slots,
		f.visits,
		events.NewNoopPublisher(),
		cfg,
	)
	return f
}

func bookingRequest(date, clock, status string) *model.BookingRequest {
	guests := model.FlexInt(2)
	return &model.BookingRequest{
		CustomerName:  "Ana Silva",
		CustomerEmail: "ana@example.com",
		Date:          date,
		Time:          clock,
		Guests:        &guests,
		Status:        status,
	}
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_ClosedSlotRejected(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.slots.isSlotAvailableFunc = func(ctx context.Context, date string, hhmm string) (bool, error) {
		if date != "2025-03-01" || hhmm != "19:45" {
			t.Errorf("unexpected lookup %s %s", date, hhmm)
		}
		return false, nil
	}

	_, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "19:45", model.StatusPending))

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation || appErr.Message != MsgSlotUnavailable {
		t.Fatalf("expected slot unavailable validation error, got %v", err)
	}
	if len(f.repo.bookings) != 0 {
		t.Errorf("no booking should be written, got %d", len(f.repo.bookings))
	}
	if len(f.visits.visits) != 0 {
		t.Error("customer must not be touched when the booking is rejected")
	}
}

func TestCreate_SlotLookupFailureFailsOpen(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.slots.isSlotAvailableFunc = func(ctx context.Context, date string, hhmm string) (bool, error) {
		return false, errors.New("connection reset")
	}

	booking, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "19:45", model.StatusPending))
	if err != nil {
		t.Fatalf("lookup failure should not block the booking: %v", err)
	}
	if booking.ID == "" {
		t.Error("expected booking to be stored")
	}
}

func TestCreate_ConfirmedSlotConflicts(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	if _, err := f.service.Create(ctx, bookingRequest("2025-03-01", "19:30", model.StatusConfirmed)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.service.Create(ctx, bookingRequest("2025-03-01", "19:30:00", model.StatusPending))
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict || appErr.Message != MsgSlotAlreadyBooked {
		t.Fatalf("expected already booked conflict, got %v", err)
	}
	if len(f.repo.bookings) != 1 {
		t.Errorf("expected a single stored booking, got %d", len(f.repo.bookings))
	}
}

func TestCreate_PendingBookingsDoNotBlock(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusPending)); err != nil {
			t.Fatalf("booking %d: unexpected error: %v", i, err)
		}
	}
	if len(f.repo.bookings) != 2 {
		t.Errorf("expected 2 bookings, got %d", len(f.repo.bookings))
	}
}

func TestCreate_ConflictLookupFailureIsStorageError(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.repo.findConfirmedErr = errors.New("timeout")

	_, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending))
	if !apperrors.HasCode(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestCreate_RecordsCustomerVisits(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	for _, date := range []string{"2025-03-01", "2025-03-08"} {
		if _, err := f.service.Create(ctx, bookingRequest(date, "20:00", model.StatusPending)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := f.visits.visits["ana@example.com"]; got != 2 {
		t.Errorf("expected 2 visits, got %d", got)
	}
}

func TestCreate_CustomerFailureIsBestEffortWithoutTransactions(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.visits.err = apperrors.Storage("Failed to record customer visit", errors.New("write failed"))

	booking, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending))
	if err != nil {
		t.Fatalf("booking should stand when the customer upsert fails: %v", err)
	}
	if _, ok := f.repo.bookings[booking.ID]; !ok {
		t.Error("expected booking to be stored")
	}
}

func TestCreate_CustomerFailureAbortsTransaction(t *testing.T) {
	f := newFixture(transactionalManager{})
	f.visits.err = apperrors.Storage("Failed to record customer visit", errors.New("write failed"))

	_, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending))
	if !apperrors.HasCode(err, apperrors.CodeStorage) {
		t.Fatalf("expected storage error from the transaction, got %v", err)
	}
}

func TestCreate_RerunsTransactionAfterConcurrentCustomerCreation(t *testing.T) {
	f := newFixture(transactionalManager{})
	raced := fmt.Errorf("%w: E11000 duplicate key", customerserrors.ErrDuplicateEmail)
	f.visits.failOnce = apperrors.Storage("Failed to record customer visit", raced)

	booking, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending))
	if err != nil {
		t.Fatalf("expected the rerun to succeed, got %v", err)
	}
	if f.visits.calls != 2 {
		t.Errorf("expected the customer upsert to run twice, got %d", f.visits.calls)
	}
	if got := f.visits.visits[booking.CustomerEmail]; got != 1 {
		t.Errorf("expected one recorded visit, got %d", got)
	}
	if _, ok := f.repo.bookings[booking.ID]; !ok {
		t.Error("expected the rerun booking to be stored")
	}
}

func TestCreate_DuplicateCustomerNotRetriedWithoutTransactions(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	raced := fmt.Errorf("%w: E11000 duplicate key", customerserrors.ErrDuplicateEmail)
	f.visits.failOnce = apperrors.Storage("Failed to record customer visit", raced)

	if _, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending)); err != nil {
		t.Fatalf("booking should stand: %v", err)
	}
	if f.visits.calls != 1 {
		t.Errorf("expected a single upsert attempt, got %d", f.visits.calls)
	}
}

func TestCreate_LockHeldConflicts(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.locks.held[model.BookingLockID("2025-03-01", "20:00:00")] = true

	_, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending))
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict || appErr.Message != MsgSlotLocked {
		t.Fatalf("expected lock conflict, got %v", err)
	}
}

func TestCreate_ReleasesLock(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())

	if _, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", model.StatusPending)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.locks.held) != 0 {
		t.Errorf("expected lock to be released, still held: %v", f.locks.held)
	}
	if len(f.locks.freed) != 1 || f.locks.freed[0] != "booking_lock_2025-03-01_20:00:00" {
		t.Errorf("unexpected released locks: %v", f.locks.freed)
	}
}

func TestCreate_GuestLimit(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	req := bookingRequest("2025-03-01", "20:00", model.StatusPending)
	guests := model.FlexInt(21)
	req.Guests = &guests

	_, err := f.service.Create(context.Background(), req)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_InvalidStatus(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())

	_, err := f.service.Create(context.Background(), bookingRequest("2025-03-01", "20:00", "maybe"))
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// ────────────────────────────────────────────────
// Update / Delete / SendConfirmation
// ────────────────────────────────────────────────

func TestUpdate_ConfirmingIntoTakenSlotConflicts(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	if _, err := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusConfirmed)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pending, err := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusPending))
	if err == nil {
		t.Fatalf("expected conflict creating into confirmed slot, got booking %s", pending.ID)
	}

	other, err := f.service.Create(ctx, bookingRequest("2025-03-01", "21:00", model.StatusPending))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newTime := "20:00"
	confirmed := model.StatusConfirmed
	_, err = f.service.Update(ctx, other.ID, &model.BookingUpdate{Time: &newTime, Status: &confirmed})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdate_ReconfirmingSameBookingAllowed(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	booking, err := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusConfirmed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	guests := model.FlexInt(6)
	updated, err := f.service.Update(ctx, booking.ID, &model.BookingUpdate{Guests: &guests})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Guests != 6 || updated.Time != "20:00:00" {
		t.Errorf("unexpected update result: %+v", updated)
	}
}

func TestUpdate_NormalizesDateAndTime(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	booking, _ := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusPending))

	date := "2025-04-02T10:00:00Z"
	clock := "9:30 AM"
	updated, err := f.service.Update(ctx, booking.ID, &model.BookingUpdate{Date: &date, Time: &clock})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DateString() != "2025-04-02" || updated.Time != "09:30:00" {
		t.Errorf("expected normalized date and time, got %s %s", updated.DateString(), updated.Time)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())

	_, err := f.service.Update(context.Background(), "missing", &model.BookingUpdate{})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_DoesNotTouchCustomer(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	booking, _ := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusPending))
	if err := f.service.Delete(ctx, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.visits.visits["ana@example.com"] != 1 {
		t.Error("deleting a booking must not change the customer record")
	}
	if err := f.service.Delete(ctx, booking.ID); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestSendConfirmation(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	ctx := context.Background()

	if _, err := f.service.SendConfirmation(ctx, "missing"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	booking, _ := f.service.Create(ctx, bookingRequest("2025-03-01", "20:00", model.StatusPending))
	message, err := f.service.SendConfirmation(ctx, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message != MsgEmailDisabled {
		t.Errorf("unexpected message %q", message)
	}
}

// ────────────────────────────────────────────────
// Analytics
// ────────────────────────────────────────────────

func TestAnalytics(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.repo.countFunc = func(ctx context.Context) (int64, error) { return 7, nil }
	f.repo.averageFunc = func(ctx context.Context) (float64, error) { return 3.666, nil }
	f.repo.timeCountsFunc = func(ctx context.Context) ([]repository.TimeCount, error) {
		return []repository.TimeCount{
			{Time: "19:30:00", Count: 3},
			{Time: "00:15:00", Count: 2},
			{Time: "12:00:00", Count: 2},
			{Time: "08:30:00", Count: 1},
		}, nil
	}

	analytics, err := f.service.Analytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analytics.TotalBookings != 7 {
		t.Errorf("expected 7 bookings, got %d", analytics.TotalBookings)
	}
	if analytics.AveragePartySize != 3.7 {
		t.Errorf("expected average 3.7, got %v", analytics.AveragePartySize)
	}
	want := []string{"7:30 PM", "12:15 AM", "12:00 PM"}
	if len(analytics.PeakHours) != len(want) {
		t.Fatalf("expected %v, got %v", want, analytics.PeakHours)
	}
	for i := range want {
		if analytics.PeakHours[i] != want[i] {
			t.Errorf("peak hour %d: expected %q, got %q", i, want[i], analytics.PeakHours[i])
		}
	}
}

func TestAnalytics_NoConfirmedBookings(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())

	analytics, err := f.service.Analytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analytics.PeakHours) != 1 || analytics.PeakHours[0] != NoPeakHours {
		t.Errorf("expected placeholder peak hours, got %v", analytics.PeakHours)
	}
	if analytics.AveragePartySize != 0 {
		t.Errorf("expected zero average, got %v", analytics.AveragePartySize)
	}
}

func TestAnalytics_StorageFailure(t *testing.T) {
	f := newFixture(mongotx.NewDirectManager())
	f.repo.countFunc = func(ctx context.Context) (int64, error) { return 0, errors.New("down") }

	if _, err := f.service.Analytics(context.Background()); !apperrors.HasCode(err, apperrors.CodeStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}
