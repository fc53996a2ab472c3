package api

import (
	"context"

	"github.com/Domenick1991/airbooking-web/internal/bookingapi"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/service/booking"
	"github.com/Domenick1991/airbooking-web/internal/service/catalog"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) quote(args mock.Arguments) (*booking.DraftQuote, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.DraftQuote), args.Error(1)
}

func (m *MockBookingUseCase) details(args mock.Arguments) (*booking.Details, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Details), args.Error(1)
}

func (m *MockBookingUseCase) OpenDraft(ctx context.Context, flightID int64) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, flightID))
}

func (m *MockBookingUseCase) Quote(ctx context.Context, draftID string) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID))
}

func (m *MockBookingUseCase) AddPassenger(ctx context.Context, draftID string) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID))
}

func (m *MockBookingUseCase) RemovePassenger(ctx context.Context, draftID string, index int) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID, index))
}

func (m *MockBookingUseCase) RenamePassenger(ctx context.Context, draftID string, index int, name string) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID, index, name))
}

func (m *MockBookingUseCase) SetTicketType(ctx context.Context, draftID string, index int, ticketTypeID int64) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID, index, ticketTypeID))
}

func (m *MockBookingUseCase) UpdatePassenger(ctx context.Context, draftID string, index int, update booking.PassengerUpdate) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID, index, update))
}

func (m *MockBookingUseCase) ToggleAddon(ctx context.Context, draftID string, index int, addonID int64) (*booking.DraftQuote, error) {
	return m.quote(m.Called(ctx, draftID, index, addonID))
}

func (m *MockBookingUseCase) DiscardDraft(ctx context.Context, draftID string) error {
	return m.Called(ctx, draftID).Error(0)
}

func (m *MockBookingUseCase) Submit(ctx context.Context, draftID string) (*booking.Details, error) {
	return m.details(m.Called(ctx, draftID))
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, bookingID int64) (*booking.Details, error) {
	return m.details(m.Called(ctx, bookingID))
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]booking.Details, error) {
	args := m.Called(ctx)
	return args.Get(0).([]booking.Details), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, bookingID int64) (*booking.Details, error) {
	return m.details(m.Called(ctx, bookingID))
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID int64) (*booking.Details, error) {
	return m.details(m.Called(ctx, bookingID))
}

func (m *MockBookingUseCase) SweepExpired(ctx context.Context) ([]domain.Submission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Submission), args.Error(1)
}

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) GetOffer(ctx context.Context, flightID int64) (*catalog.Offer, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offer), args.Error(1)
}

func (m *MockCatalogUseCase) TicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]domain.TicketType), args.Error(1)
}

func (m *MockCatalogUseCase) Addons(ctx context.Context) ([]domain.AddonOption, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.AddonOption), args.Error(1)
}

func (m *MockCatalogUseCase) Search(ctx context.Context, q domain.FlightQuery) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockCatalogUseCase) Airports(ctx context.Context, q string) ([]domain.Airport, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, creds bookingapi.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUseCase) Register(ctx context.Context, reg bookingapi.Registration) (*bookingapi.Account, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingapi.Account), args.Error(1)
}
