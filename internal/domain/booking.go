package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type FlightSummary struct {
	ID               int64     `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	DepartureAirport Airport   `json:"departure_airport"`
	ArrivalAirport   Airport   `json:"arrival_airport"`
}

type TicketTypeSnapshot struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	PriceMultiplier    float64 `json:"price_multiplier"`
	BaggageAllowanceKg int     `json:"baggage_allowance_kg"`
}

type Ticket struct {
	ID             int64              `json:"id"`
	PassengerName  string             `json:"passenger_name"`
	SeatNumber     *string            `json:"seat_number,omitempty"`
	ExtraBaggageKg int                `json:"extra_baggage_kg"`
	FinalPrice     Money              `json:"final_price"`
	TicketType     TicketTypeSnapshot `json:"ticket_type"`
}

// Booking is the server-authoritative reservation. It is only ever re-fetched,
// never mutated locally.
type Booking struct {
	ID          int64          `json:"id"`
	BookingTime time.Time      `json:"booking_time"`
	TotalPrice  Money          `json:"total_price"`
	Status      BookingStatus  `json:"status"`
	ExpiresAt   time.Time      `json:"expires_at"`
	FlightID    int64          `json:"flight_id"`
	Flight      *FlightSummary `json:"flight,omitempty"`
	Tickets     []Ticket       `json:"tickets,omitempty"`
}

type PassengerRequest struct {
	PassengerName  string  `json:"passenger_name"`
	TicketTypeID   int64   `json:"ticket_type_id"`
	AddonOptionIDs []int64 `json:"addon_option_ids"`
}

type CreateBookingRequest struct {
	FlightID   int64              `json:"flight_id"`
	Passengers []PassengerRequest `json:"passengers"`
}

// SubmissionState tracks a submitted draft in the local ledger.
type SubmissionState string

const (
	SubmissionPending   SubmissionState = "pending"
	SubmissionConfirmed SubmissionState = "confirmed"
	SubmissionCancelled SubmissionState = "cancelled"
	SubmissionExpired   SubmissionState = "expired"
)

func SubmissionStateOf(status BookingStatus) SubmissionState {
	switch status {
	case BookingStatusConfirmed:
		return SubmissionConfirmed
	case BookingStatusCancelled:
		return SubmissionCancelled
	default:
		return SubmissionPending
	}
}

type Submission struct {
	DraftID    string
	BookingID  int64
	FlightID   int64
	Subject    string
	TotalPrice Money
	State      SubmissionState
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
