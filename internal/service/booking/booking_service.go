package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/auth"
	"github.com/Domenick1991/airbooking-web/internal/bookingview"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/draft"
	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/Domenick1991/airbooking-web/internal/repository"
	"github.com/Domenick1991/airbooking-web/internal/service/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	DraftUseCase
	OpenDraft(ctx context.Context, flightID int64) (*DraftQuote, error)
	Submit(ctx context.Context, draftID string) (*Details, error)
	GetBooking(ctx context.Context, bookingID int64) (*Details, error)
	ListBookings(ctx context.Context) ([]Details, error)
	ConfirmBooking(ctx context.Context, bookingID int64) (*Details, error)
	CancelBooking(ctx context.Context, bookingID int64) (*Details, error)
	SweepExpired(ctx context.Context) ([]domain.Submission, error)
}

// Upstream is the booking half of the remote API.
type Upstream interface {
	CreateBooking(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CleanupExpired(ctx context.Context) (string, error)
}

// Catalog supplies the reference data drafts are validated and priced against.
type Catalog interface {
	GetOffer(ctx context.Context, flightID int64) (*catalog.Offer, error)
	TicketTypes(ctx context.Context, flightID int64) ([]domain.TicketType, error)
	Addons(ctx context.Context) ([]domain.AddonOption, error)
}

// DraftStore keeps drafts between requests. SaveDraft must refuse with
// ErrSubmissionInFlight while the submit lock is held and with
// ErrDraftSubmitted once MarkSubmitted has run for the draft.
type DraftStore interface {
	GetDraft(ctx context.Context, draftID string) (*draft.Draft, error)
	SaveDraft(ctx context.Context, d *draft.Draft) error
	DeleteDraft(ctx context.Context, draftID string) error
	AcquireSubmitLock(ctx context.Context, draftID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, draftID string) error
	MarkSubmitted(ctx context.Context, draftID string, bookingID int64) error
	Submitted(ctx context.Context, draftID string) (bool, error)
}

type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event kafka.BookingEvent) error
}

// Details pairs a fetched booking with the flags the view renders.
type Details struct {
	Booking *domain.Booking  `json:"booking"`
	View    bookingview.View `json:"view"`
}

type BookingService struct {
	upstream       Upstream
	catalog        Catalog
	drafts         DraftStore
	submissions    repository.SubmissionRepository
	events         EventPublisher
	log            *zap.Logger
	now            func() time.Time
	newID          func() string
	submitLockTTL  time.Duration
	maxPassengers  int
	fallbackType   int64
	publishTimeout time.Duration
	sweepLogin     func(ctx context.Context) (string, error)
}

type BookingServiceOption func(*BookingService)

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) { s.now = now }
}

func WithIDGenerator(newID func() string) BookingServiceOption {
	return func(s *BookingService) { s.newID = newID }
}

func WithSubmitLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) { s.submitLockTTL = ttl }
}

func WithMaxPassengers(n int) BookingServiceOption {
	return func(s *BookingService) { s.maxPassengers = n }
}

// WithFallbackTicketType is used for new passengers when the flight has no
// ticket types loaded.
func WithFallbackTicketType(id int64) BookingServiceOption {
	return func(s *BookingService) { s.fallbackType = id }
}

// WithPublishTimeout bounds how long a request waits on event delivery.
func WithPublishTimeout(d time.Duration) BookingServiceOption {
	return func(s *BookingService) { s.publishTimeout = d }
}

// WithSweepLogin gives SweepExpired a token for reading bookings.
func WithSweepLogin(login func(ctx context.Context) (string, error)) BookingServiceOption {
	return func(s *BookingService) { s.sweepLogin = login }
}

func WithEventPublisher(p EventPublisher) BookingServiceOption {
	return func(s *BookingService) { s.events = p }
}

func WithLogger(l *zap.Logger) BookingServiceOption {
	return func(s *BookingService) { s.log = l }
}

func NewBookingService(
	upstream Upstream,
	refs Catalog,
	drafts DraftStore,
	submissions repository.SubmissionRepository,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		upstream:       upstream,
		catalog:        refs,
		drafts:         drafts,
		submissions:    submissions,
		log:            zap.NewNop(),
		now:            time.Now,
		newID:          uuid.NewString,
		submitLockTTL:  30 * time.Second,
		fallbackType:   1,
		publishTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) OpenDraft(ctx context.Context, flightID int64) (*DraftQuote, error) {
	offer, err := s.catalog.GetOffer(ctx, flightID)
	if err != nil {
		return nil, err
	}

	d := draft.New(s.newID(), flightID,
		draft.WithDefaultTicketType(draft.DefaultTicketType(offer.TicketTypes, s.fallbackType)),
		draft.WithMaxPassengers(s.maxPassengers),
	)
	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return &DraftQuote{
		Draft:    d,
		Total:    d.ComputeTotal(offer.TicketTypes, offer.ActiveAddons()),
		Complete: true,
	}, nil
}

// Submit sends the draft to the booking API at most once. The lock is
// released when the API call fails so the same draft can be retried. After a
// booking is created the draft id is marked submitted and can never be sent
// again.
func (s *BookingService) Submit(ctx context.Context, draftID string) (*Details, error) {
	id, ok := auth.FromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	locked, err := s.drafts.AcquireSubmitLock(ctx, draftID, s.submitLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !locked {
		return nil, domain.ErrSubmissionInFlight
	}

	d, err := s.lockedDraft(ctx, draftID)
	if err != nil {
		s.releaseSubmitLock(ctx, draftID)
		return nil, err
	}

	created, err := s.upstream.CreateBooking(ctx, d.BookingRequest())
	if err != nil {
		s.releaseSubmitLock(ctx, draftID)
		return nil, err
	}
	if created.FlightID == 0 {
		created.FlightID = d.FlightID
	}

	s.log.Info("booking created",
		zap.String("draft_id", draftID),
		zap.Int64("booking_id", created.ID),
		zap.Int("passengers", len(d.Passengers)),
	)

	if err := s.drafts.MarkSubmitted(ctx, draftID, created.ID); err != nil {
		s.log.Error("mark draft submitted failed", zap.String("draft_id", draftID), zap.Error(err))
	}
	if s.submissions != nil {
		err := s.submissions.Record(ctx, &domain.Submission{
			DraftID:    draftID,
			BookingID:  created.ID,
			FlightID:   created.FlightID,
			Subject:    id.Subject,
			TotalPrice: created.TotalPrice,
			State:      domain.SubmissionStateOf(created.Status),
			ExpiresAt:  created.ExpiresAt,
		})
		if err != nil {
			s.log.Error("record submission failed", zap.Int64("booking_id", created.ID), zap.Error(err))
		}
	}
	s.publish(ctx, kafka.NewBookingEvent(kafka.EventBookingCreated, created, id.Subject, draftID))

	if err := s.drafts.DeleteDraft(ctx, draftID); err != nil {
		s.log.Warn("discard submitted draft failed", zap.String("draft_id", draftID), zap.Error(err))
	}
	return s.details(created), nil
}

// lockedDraft reads the draft under the submit lock and checks that it is
// ready and has not produced a booking before.
func (s *BookingService) lockedDraft(ctx context.Context, draftID string) (*draft.Draft, error) {
	submitted, err := s.drafts.Submitted(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("check draft %s: %w", draftID, err)
	}
	if submitted {
		return nil, domain.ErrDraftSubmitted
	}

	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := d.ValidateForSubmission(); err != nil {
		return nil, err
	}

	if s.submissions != nil {
		_, err := s.submissions.FindByDraft(ctx, draftID)
		switch {
		case err == nil:
			return nil, domain.ErrDraftSubmitted
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("check draft %s: %w", draftID, err)
		}
	}
	return d, nil
}

func (s *BookingService) releaseSubmitLock(ctx context.Context, draftID string) {
	if err := s.drafts.ReleaseSubmitLock(ctx, draftID); err != nil {
		s.log.Warn("release submit lock failed", zap.String("draft_id", draftID), zap.Error(err))
	}
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID int64) (*Details, error) {
	b, err := s.upstream.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.details(b), nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]Details, error) {
	bookings, err := s.upstream.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Details, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, *s.details(b))
	}
	return out, nil
}

// ConfirmBooking re-checks the booking before asking the API, so an expired
// hold is refused without a round trip.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID int64) (*Details, error) {
	current, err := s.upstream.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !bookingview.CanConfirm(current, now) {
		if current.Status == domain.BookingStatusPending {
			return nil, domain.ErrBookingExpired
		}
		return nil, domain.ErrBookingNotPending
	}

	if _, err := s.upstream.ConfirmBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.afterTransition(ctx, bookingID, kafka.EventBookingConfirmed)
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*Details, error) {
	current, err := s.upstream.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bookingview.CanCancel(current) {
		return nil, domain.ErrBookingNotPending
	}

	if _, err := s.upstream.CancelBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.afterTransition(ctx, bookingID, kafka.EventBookingCancelled)
}

// afterTransition re-fetches the booking, which is the only way local state
// learns about a confirm or cancel.
func (s *BookingService) afterTransition(ctx context.Context, bookingID int64, eventType string) (*Details, error) {
	updated, err := s.upstream.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	subject := ""
	if id, ok := auth.FromContext(ctx); ok {
		subject = id.Subject
	}
	s.updateLedger(ctx, bookingID, domain.SubmissionStateOf(updated.Status))
	s.publish(ctx, kafka.NewBookingEvent(eventType, updated, subject, ""))
	return s.details(updated), nil
}

// SweepExpired settles ledger entries whose hold has run out. It first asks
// the API to cancel overdue holds. Entries the API still reports as pending,
// or will not show us, are recorded as expired; confirmations made through
// this service already moved their entry out of pending.
func (s *BookingService) SweepExpired(ctx context.Context) ([]domain.Submission, error) {
	if s.submissions == nil {
		return nil, nil
	}
	if msg, err := s.upstream.CleanupExpired(ctx); err != nil {
		s.log.Warn("sweep: booking api cleanup failed", zap.Error(err))
	} else {
		s.log.Debug("sweep: booking api cleanup", zap.String("result", msg))
	}

	pending, err := s.submissions.PendingExpiredBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 && s.sweepLogin != nil {
		token, err := s.sweepLogin(ctx)
		if err != nil {
			s.log.Warn("sweep: login failed", zap.Error(err))
		} else {
			ctx = auth.WithIdentity(ctx, auth.Identity{Token: token})
		}
	}

	settled := make([]domain.Submission, 0, len(pending))
	for _, sub := range pending {
		state := domain.SubmissionExpired
		b, err := s.upstream.GetBooking(ctx, sub.BookingID)
		switch {
		case err == nil:
			if b.Status != domain.BookingStatusPending {
				state = domain.SubmissionStateOf(b.Status)
			}
		case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotFound):
		default:
			s.log.Warn("sweep: booking lookup failed", zap.Int64("booking_id", sub.BookingID), zap.Error(err))
			continue
		}

		updated, err := s.submissions.UpdateState(ctx, sub.BookingID, state)
		if err != nil {
			s.log.Warn("sweep: ledger update failed", zap.Int64("booking_id", sub.BookingID), zap.Error(err))
			continue
		}
		if state == domain.SubmissionExpired {
			s.publish(ctx, kafka.BookingEvent{
				Type:       kafka.EventBookingExpired,
				BookingID:  updated.BookingID,
				DraftID:    updated.DraftID,
				FlightID:   updated.FlightID,
				Subject:    updated.Subject,
				Status:     domain.BookingStatusCancelled,
				TotalPrice: updated.TotalPrice,
				ExpiresAt:  updated.ExpiresAt,
			})
		}
		settled = append(settled, *updated)
	}
	return settled, nil
}

func (s *BookingService) details(b *domain.Booking) *Details {
	return &Details{Booking: b, View: bookingview.Describe(b, s.now())}
}

func (s *BookingService) updateLedger(ctx context.Context, bookingID int64, state domain.SubmissionState) {
	if s.submissions == nil {
		return
	}
	if _, err := s.submissions.UpdateState(ctx, bookingID, state); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Debug("booking not in ledger", zap.Int64("booking_id", bookingID))
			return
		}
		s.log.Warn("ledger update failed", zap.Int64("booking_id", bookingID), zap.Error(err))
	}
}

func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.events.PublishBookingEvent(ctx, event); err != nil {
		s.log.Warn("publish booking event failed",
			zap.String("type", event.Type),
			zap.Int64("booking_id", event.BookingID),
			zap.Error(err),
		)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
