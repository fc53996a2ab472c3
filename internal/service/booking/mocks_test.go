package booking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/draft"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/service/catalog"
	"github.com/stretchr/testify/mock"
)

type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) CreateBooking(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockUpstream) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockUpstream) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockUpstream) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockUpstream) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockUpstream) CleanupExpired(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetOffer(ctx context.Context, flightID int64) (*catalog.Offer, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offer), args.Error(1)
}

func (m *MockCatalog) TicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.TicketType), args.Error(1)
}

func (m *MockCatalog) Addons(ctx context.Context) ([]domain.AddonOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AddonOption), args.Error(1)
}

type MockSubmissions struct {
	mock.Mock
}

func (m *MockSubmissions) Record(ctx context.Context, s *domain.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissions) FindByDraft(ctx context.Context, draftID string) (*domain.Submission, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissions) UpdateState(ctx context.Context, bookingID int64, state domain.SubmissionState) (*domain.Submission, error) {
	args := m.Called(ctx, bookingID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissions) PendingExpiredBefore(ctx context.Context, deadline time.Time) ([]domain.Submission, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]domain.Submission), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingEvent(ctx context.Context, event kafka.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// memoryDrafts stores JSON copies so a test sees only what the service saved.
// Saves are refused the same way the Redis store refuses them.
type memoryDrafts struct {
	mu        sync.Mutex
	drafts    map[string][]byte
	locks     map[string]bool
	submitted map[string]int64
	saveErr   error
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{drafts: map[string][]byte{}, locks: map[string]bool{}, submitted: map[string]int64{}}
}

func (m *memoryDrafts) GetDraft(_ context.Context, draftID string) (*draft.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.drafts[draftID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	var d draft.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *memoryDrafts) SaveDraft(_ context.Context, d *draft.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.submitted[d.ID]; ok {
		return domain.ErrDraftSubmitted
	}
	if m.locks[d.ID] {
		return domain.ErrSubmissionInFlight
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.drafts[d.ID] = data
	return nil
}

func (m *memoryDrafts) DeleteDraft(_ context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, draftID)
	return nil
}

func (m *memoryDrafts) AcquireSubmitLock(_ context.Context, draftID string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[draftID] {
		return false, nil
	}
	m.locks[draftID] = true
	return true, nil
}

func (m *memoryDrafts) ReleaseSubmitLock(_ context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, draftID)
	return nil
}

func (m *memoryDrafts) MarkSubmitted(_ context.Context, draftID string, bookingID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted[draftID] = bookingID
	return nil
}

func (m *memoryDrafts) Submitted(_ context.Context, draftID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.submitted[draftID]
	return ok, nil
}

func (m *memoryDrafts) put(d *draft.Draft) {
	_ = m.SaveDraft(context.Background(), d)
}

func (m *memoryDrafts) locked(draftID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locks[draftID]
}
