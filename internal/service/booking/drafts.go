package booking

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/draft"
	"go.uber.org/zap"
)

type DraftUseCase interface {
	Quote(ctx context.Context, draftID string) (*DraftQuote, error)
	AddPassenger(ctx context.Context, draftID string) (*DraftQuote, error)
	RemovePassenger(ctx context.Context, draftID string, index int) (*DraftQuote, error)
	RenamePassenger(ctx context.Context, draftID string, index int, name string) (*DraftQuote, error)
	SetTicketType(ctx context.Context, draftID string, index int, ticketTypeID int64) (*DraftQuote, error)
	UpdatePassenger(ctx context.Context, draftID string, index int, update PassengerUpdate) (*DraftQuote, error)
	ToggleAddon(ctx context.Context, draftID string, index int, addonID int64) (*DraftQuote, error)
	DiscardDraft(ctx context.Context, draftID string) error
}

// DraftQuote is a draft priced against the reference data available now.
// Complete is false when ticket types or add-ons could not be loaded, in
// which case their prices count as zero.
type DraftQuote struct {
	Draft    *draft.Draft `json:"draft"`
	Total    domain.Money `json:"total"`
	Complete bool         `json:"complete"`
}

// PassengerUpdate names the passenger fields to replace. Nil fields are kept.
type PassengerUpdate struct {
	Name         *string
	TicketTypeID *int64
}

func (s *BookingService) Quote(ctx context.Context, draftID string) (*DraftQuote, error) {
	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, d), nil
}

func (s *BookingService) AddPassenger(ctx context.Context, draftID string) (*DraftQuote, error) {
	return s.mutate(ctx, draftID, func(d *draft.Draft) error {
		return d.AddPassenger()
	})
}

func (s *BookingService) RemovePassenger(ctx context.Context, draftID string, index int) (*DraftQuote, error) {
	return s.mutate(ctx, draftID, func(d *draft.Draft) error {
		return d.RemovePassenger(index)
	})
}

func (s *BookingService) RenamePassenger(ctx context.Context, draftID string, index int, name string) (*DraftQuote, error) {
	return s.UpdatePassenger(ctx, draftID, index, PassengerUpdate{Name: &name})
}

func (s *BookingService) SetTicketType(ctx context.Context, draftID string, index int, ticketTypeID int64) (*DraftQuote, error) {
	return s.UpdatePassenger(ctx, draftID, index, PassengerUpdate{TicketTypeID: &ticketTypeID})
}

// UpdatePassenger applies every field of update or none of them. A ticket
// type must be offered for the draft's flight.
func (s *BookingService) UpdatePassenger(ctx context.Context, draftID string, index int, update PassengerUpdate) (*DraftQuote, error) {
	return s.mutate(ctx, draftID, func(d *draft.Draft) error {
		if update.TicketTypeID != nil {
			if err := s.checkTicketType(ctx, d.FlightID, *update.TicketTypeID); err != nil {
				return err
			}
			if err := d.UpdatePassengerTicketType(index, *update.TicketTypeID); err != nil {
				return err
			}
		}
		if update.Name != nil {
			return d.UpdatePassengerName(index, *update.Name)
		}
		return nil
	})
}

func (s *BookingService) checkTicketType(ctx context.Context, flightID, ticketTypeID int64) error {
	types, err := s.catalog.TicketTypes(ctx, flightID)
	if err != nil {
		return err
	}
	for _, tt := range types {
		if tt.ID == ticketTypeID {
			return nil
		}
	}
	return fmt.Errorf("ticket type %d: %w", ticketTypeID, domain.ErrUnknownTicketType)
}

// ToggleAddon checks the catalog only when selecting. Deselecting a stale id
// is always allowed.
func (s *BookingService) ToggleAddon(ctx context.Context, draftID string, index int, addonID int64) (*DraftQuote, error) {
	return s.mutate(ctx, draftID, func(d *draft.Draft) error {
		if d.HasAddon(index, addonID) {
			return d.ToggleAddon(index, addonID)
		}
		addons, err := s.catalog.Addons(ctx)
		if err != nil {
			return err
		}
		for _, a := range addons {
			if a.ID == addonID {
				return d.ToggleAddon(index, addonID)
			}
		}
		return fmt.Errorf("addon %d: %w", addonID, domain.ErrUnknownAddon)
	})
}

func (s *BookingService) DiscardDraft(ctx context.Context, draftID string) error {
	return s.drafts.DeleteDraft(ctx, draftID)
}

// mutate works on a copy of the stored draft and saves only when apply
// succeeds. The store refuses the save once a submission has started.
func (s *BookingService) mutate(ctx context.Context, draftID string, apply func(*draft.Draft) error) (*DraftQuote, error) {
	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := apply(d); err != nil {
		return nil, err
	}
	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft %s: %w", draftID, err)
	}
	return s.quote(ctx, d), nil
}

func (s *BookingService) quote(ctx context.Context, d *draft.Draft) *DraftQuote {
	q := &DraftQuote{Draft: d, Complete: true}

	types, err := s.catalog.TicketTypes(ctx, d.FlightID)
	if err != nil {
		s.log.Warn("pricing without ticket types", zap.Int64("flight_id", d.FlightID), zap.Error(err))
		q.Complete = false
	}
	addons, err := s.catalog.Addons(ctx)
	if err != nil {
		s.log.Warn("pricing without addons", zap.Error(err))
		q.Complete = false
	}

	q.Total = d.ComputeTotal(types, addons)
	return q
}
