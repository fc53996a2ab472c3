// Package draft holds an in-progress multi-passenger reservation for one flight
// and derives its price from externally supplied reference data.
package draft

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

const ReasonEmptyName = "empty_name"

type Passenger struct {
	Name         string  `json:"name"`
	TicketTypeID int64   `json:"ticket_type_id"`
	AddonIDs     []int64 `json:"addon_ids"`
}

// Draft is owned by exactly one flight-detail view and is never persisted upstream.
// AddonIDs of every passenger are kept sorted so the set has one representation.
type Draft struct {
	ID                  string      `json:"id"`
	FlightID            int64       `json:"flight_id"`
	DefaultTicketTypeID int64       `json:"default_ticket_type_id"`
	MaxPassengers       int         `json:"max_passengers,omitempty"`
	Passengers          []Passenger `json:"passengers"`
}

type Option func(*Draft)

func WithDefaultTicketType(id int64) Option {
	return func(d *Draft) { d.DefaultTicketTypeID = id }
}

// WithMaxPassengers caps AddPassenger. Zero means no cap.
func WithMaxPassengers(n int) Option {
	return func(d *Draft) { d.MaxPassengers = n }
}

func New(id string, flightID int64, opts ...Option) *Draft {
	d := &Draft{ID: id, FlightID: flightID}
	for _, opt := range opts {
		opt(d)
	}
	d.Passengers = []Passenger{d.blankPassenger()}
	return d
}

// DefaultTicketType returns the first fetched ticket type, or fallback when
// reference data has not loaded.
func DefaultTicketType(types []domain.TicketType, fallback int64) int64 {
	if len(types) > 0 {
		return types[0].ID
	}
	return fallback
}

type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("passenger index %d out of range [0,%d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return domain.ErrValidation }

type ValidationError struct {
	Reason         string
	PassengerIndex int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("passenger %d: %s", e.PassengerIndex, e.Reason)
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

func (d *Draft) blankPassenger() Passenger {
	return Passenger{TicketTypeID: d.DefaultTicketTypeID, AddonIDs: []int64{}}
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Passengers) {
		return &IndexError{Index: i, Len: len(d.Passengers)}
	}
	return nil
}

func (d *Draft) AddPassenger() error {
	if d.MaxPassengers > 0 && len(d.Passengers) >= d.MaxPassengers {
		return domain.ErrTooManyPassengers
	}
	d.Passengers = append(d.Passengers, d.blankPassenger())
	return nil
}

// RemovePassenger is a no-op when only one passenger is left.
func (d *Draft) RemovePassenger(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if len(d.Passengers) == 1 {
		return nil
	}
	d.Passengers = slices.Delete(d.Passengers, i, i+1)
	return nil
}

func (d *Draft) UpdatePassengerName(i int, name string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Passengers[i].Name = name
	return nil
}

func (d *Draft) UpdatePassengerTicketType(i int, ticketTypeID int64) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Passengers[i].TicketTypeID = ticketTypeID
	return nil
}

// ToggleAddon removes addonID from the passenger's set if present, adds it otherwise.
func (d *Draft) ToggleAddon(i int, addonID int64) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	ids := d.Passengers[i].AddonIDs
	pos, found := slices.BinarySearch(ids, addonID)
	if found {
		d.Passengers[i].AddonIDs = slices.Delete(slices.Clone(ids), pos, pos+1)
	} else {
		d.Passengers[i].AddonIDs = slices.Insert(slices.Clone(ids), pos, addonID)
	}
	return nil
}

// HasAddon reports whether passenger i has addonID selected.
func (d *Draft) HasAddon(i int, addonID int64) bool {
	if d.checkIndex(i) != nil {
		return false
	}
	_, found := slices.BinarySearch(d.Passengers[i].AddonIDs, addonID)
	return found
}

// ComputeTotal sums each passenger's ticket price and add-on prices. Ids that
// are missing from the reference data contribute zero, so partially loaded
// or stale lists are valid input.
func (d *Draft) ComputeTotal(ticketTypes []domain.TicketType, addons []domain.AddonOption) domain.Money {
	ticketPrices := make(map[int64]domain.Money, len(ticketTypes))
	for _, tt := range ticketTypes {
		ticketPrices[tt.ID] = tt.CalculatedPrice
	}
	addonPrices := make(map[int64]domain.Money, len(addons))
	for _, a := range addons {
		addonPrices[a.ID] = a.Price
	}

	var total domain.Money
	for _, p := range d.Passengers {
		total += ticketPrices[p.TicketTypeID]
		for _, id := range p.AddonIDs {
			total += addonPrices[id]
		}
	}
	return total
}

func (d *Draft) ValidateForSubmission() error {
	for i, p := range d.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return &ValidationError{Reason: ReasonEmptyName, PassengerIndex: i}
		}
	}
	return nil
}

// BookingRequest builds the upstream payload. Call ValidateForSubmission first.
func (d *Draft) BookingRequest() domain.CreateBookingRequest {
	req := domain.CreateBookingRequest{
		FlightID:   d.FlightID,
		Passengers: make([]domain.PassengerRequest, 0, len(d.Passengers)),
	}
	for _, p := range d.Passengers {
		req.Passengers = append(req.Passengers, domain.PassengerRequest{
			PassengerName:  strings.TrimSpace(p.Name),
			TicketTypeID:   p.TicketTypeID,
			AddonOptionIDs: slices.Clone(p.AddonIDs),
		})
	}
	return req
}
