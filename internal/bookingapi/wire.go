package bookingapi

import (
	"fmt"
	"math"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTime accepts RFC3339 and the offset-less timestamps the API emits.
func (c *Client) parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", domain.ErrUpstream, s)
}

func money(v float64) domain.Money {
	return domain.Money(math.Round(v))
}

type airportWire struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Display string `json:"display"`
}

func (a airportWire) toDomain() domain.Airport {
	return domain.Airport{ID: a.ID, Name: a.Name, City: a.City, Display: a.Display}
}

type flightWire struct {
	ID               int64       `json:"id"`
	FlightNumber     string      `json:"flightNumber"`
	DepartureAirport airportWire `json:"departureAirport"`
	ArrivalAirport   airportWire `json:"arrivalAirport"`
	DepartureTime    string      `json:"departureTime"`
	ArrivalTime      string      `json:"arrivalTime"`
	AvailableSeats   int         `json:"availableSeats"`
	BasePrice        float64     `json:"basePrice"`
}

func (c *Client) toFlight(w flightWire) (domain.FlightOffer, error) {
	dep, err := c.parseTime(w.DepartureTime)
	if err != nil {
		return domain.FlightOffer{}, fmt.Errorf("flight %d departure: %w", w.ID, err)
	}
	arr, err := c.parseTime(w.ArrivalTime)
	if err != nil {
		return domain.FlightOffer{}, fmt.Errorf("flight %d arrival: %w", w.ID, err)
	}
	return domain.FlightOffer{
		ID:               w.ID,
		FlightNumber:     w.FlightNumber,
		DepartureAirport: w.DepartureAirport.toDomain(),
		ArrivalAirport:   w.ArrivalAirport.toDomain(),
		DepartureTime:    dep,
		ArrivalTime:      arr,
		AvailableSeats:   w.AvailableSeats,
		BasePrice:        money(w.BasePrice),
	}, nil
}

type ticketTypeWire struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	PriceMultiplier        float64 `json:"priceMultiplier"`
	BaseBaggageAllowanceKg int     `json:"baseBaggageAllowanceKg"`
	CalculatedPrice        float64 `json:"calculatedPrice"`
	Description            string  `json:"description"`
}

func (w ticketTypeWire) toDomain() domain.TicketType {
	return domain.TicketType{
		ID:                 w.ID,
		Name:               w.Name,
		PriceMultiplier:    w.PriceMultiplier,
		BaggageAllowanceKg: w.BaseBaggageAllowanceKg,
		CalculatedPrice:    money(w.CalculatedPrice),
		Description:        w.Description,
	}
}

type addonWire struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	IsActive    bool    `json:"isActive"`
}

type addonCategoryWire struct {
	Category     string      `json:"category"`
	CategoryName string      `json:"categoryName"`
	Options      []addonWire `json:"options"`
}

func (w addonCategoryWire) toDomain() domain.AddonCategory {
	cat := domain.AddonCategory{
		Category: w.Category,
		Name:     w.CategoryName,
		Options:  make([]domain.AddonOption, 0, len(w.Options)),
	}
	for _, o := range w.Options {
		cat.Options = append(cat.Options, domain.AddonOption{
			ID:          o.ID,
			Name:        o.Name,
			Category:    o.Category,
			Description: o.Description,
			Price:       money(o.Price),
			Active:      o.IsActive,
		})
	}
	return cat
}

type ticketWire struct {
	ID             int64   `json:"id"`
	PassengerName  string  `json:"passengerName"`
	SeatNumber     *string `json:"seatNumber"`
	ExtraBaggageKg int     `json:"extraBaggageKg"`
	FinalPrice     float64 `json:"finalPrice"`
	TicketType     struct {
		ID                     int64   `json:"id"`
		Name                   string  `json:"name"`
		PriceMultiplier        float64 `json:"priceMultiplier"`
		BaseBaggageAllowanceKg int     `json:"baseBaggageAllowanceKg"`
	} `json:"ticketType"`
}

type bookingWire struct {
	ID          int64        `json:"id"`
	BookingTime string       `json:"bookingTime"`
	TotalPrice  float64      `json:"totalPrice"`
	Status      string       `json:"status"`
	ExpiresAt   string       `json:"expiresAt"`
	FlightID    int64        `json:"flightId"`
	Flight      *flightWire  `json:"flight"`
	Tickets     []ticketWire `json:"tickets"`
}

func (c *Client) toBooking(w bookingWire) (*domain.Booking, error) {
	bookedAt, err := c.parseTime(w.BookingTime)
	if err != nil {
		return nil, fmt.Errorf("booking %d time: %w", w.ID, err)
	}
	expiresAt, err := c.parseTime(w.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("booking %d expiry: %w", w.ID, err)
	}

	b := &domain.Booking{
		ID:          w.ID,
		BookingTime: bookedAt,
		TotalPrice:  money(w.TotalPrice),
		Status:      domain.BookingStatus(w.Status),
		ExpiresAt:   expiresAt,
		FlightID:    w.FlightID,
	}
	if w.Flight != nil {
		f, err := c.toFlight(*w.Flight)
		if err != nil {
			return nil, err
		}
		b.Flight = &domain.FlightSummary{
			ID:               f.ID,
			FlightNumber:     f.FlightNumber,
			DepartureTime:    f.DepartureTime,
			ArrivalTime:      f.ArrivalTime,
			DepartureAirport: f.DepartureAirport,
			ArrivalAirport:   f.ArrivalAirport,
		}
		if b.FlightID == 0 {
			b.FlightID = f.ID
		}
	}
	for _, t := range w.Tickets {
		b.Tickets = append(b.Tickets, domain.Ticket{
			ID:             t.ID,
			PassengerName:  t.PassengerName,
			SeatNumber:     t.SeatNumber,
			ExtraBaggageKg: t.ExtraBaggageKg,
			FinalPrice:     money(t.FinalPrice),
			TicketType: domain.TicketTypeSnapshot{
				ID:                 t.TicketType.ID,
				Name:               t.TicketType.Name,
				PriceMultiplier:    t.TicketType.PriceMultiplier,
				BaggageAllowanceKg: t.TicketType.BaseBaggageAllowanceKg,
			},
		})
	}
	return b, nil
}

type passengerWire struct {
	PassengerName  string  `json:"passengerName"`
	TicketTypeID   int64   `json:"ticketTypeId"`
	AddonOptionIDs []int64 `json:"addonOptionIds"`
}

type createBookingWire struct {
	FlightID   int64           `json:"flightId"`
	Passengers []passengerWire `json:"passengers"`
}

func toCreateBookingWire(req domain.CreateBookingRequest) createBookingWire {
	w := createBookingWire{FlightID: req.FlightID, Passengers: make([]passengerWire, 0, len(req.Passengers))}
	for _, p := range req.Passengers {
		ids := p.AddonOptionIDs
		if ids == nil {
			ids = []int64{}
		}
		w.Passengers = append(w.Passengers, passengerWire{
			PassengerName:  p.PassengerName,
			TicketTypeID:   p.TicketTypeID,
			AddonOptionIDs: ids,
		})
	}
	return w
}
