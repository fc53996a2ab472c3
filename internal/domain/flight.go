package domain

import "time"

// Money is an amount in whole currency units.
type Money int64

type Airport struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Display string `json:"display,omitempty"`
}

type FlightOffer struct {
	ID               int64     `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport Airport   `json:"departure_airport"`
	ArrivalAirport   Airport   `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	AvailableSeats   int       `json:"available_seats"`
	BasePrice        Money     `json:"base_price"`
}

func (f FlightOffer) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}

// TicketType is a fare class priced for one flight. CalculatedPrice is only
// meaningful together with the flight it was fetched for.
type TicketType struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	PriceMultiplier    float64 `json:"price_multiplier"`
	BaggageAllowanceKg int     `json:"baggage_allowance_kg"`
	CalculatedPrice    Money   `json:"calculated_price"`
	Description        string  `json:"description,omitempty"`
}

type AddonOption struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Price       Money  `json:"price"`
	Active      bool   `json:"active"`
}

type AddonCategory struct {
	Category string        `json:"category"`
	Name     string        `json:"name"`
	Options  []AddonOption `json:"options"`
}

// ActiveAddons flattens a grouped catalog into the options that may be offered.
func ActiveAddons(categories []AddonCategory) []AddonOption {
	addons := make([]AddonOption, 0)
	for _, c := range categories {
		for _, o := range c.Options {
			if o.Active {
				addons = append(addons, o)
			}
		}
	}
	return addons
}

// FlightQuery filters a flight search. Zero values are not sent.
type FlightQuery struct {
	Date               time.Time
	DepartureAirportID string
	ArrivalAirportID   string
	Skip               int
	Limit              int
}
