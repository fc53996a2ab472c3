package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingExpired   = "booking_expired"
)

type BookingEvent struct {
	Type       string               `json:"type"`
	BookingID  int64                `json:"booking_id"`
	DraftID    string               `json:"draft_id,omitempty"`
	FlightID   int64                `json:"flight_id"`
	Subject    string               `json:"subject"`
	Status     domain.BookingStatus `json:"status"`
	TotalPrice domain.Money         `json:"total_price"`
	ExpiresAt  time.Time            `json:"expires_at"`
}

// NewBookingEvent snapshots b for an event of the given type.
func NewBookingEvent(eventType string, b *domain.Booking, subject, draftID string) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		DraftID:    draftID,
		FlightID:   b.FlightID,
		Subject:    subject,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
		ExpiresAt:  b.ExpiresAt,
	}
}

// Key partitions events by booking so one booking's history stays ordered.
func (e BookingEvent) Key() string {
	return strconv.FormatInt(e.BookingID, 10)
}

func DecodeEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event at offset %d: %w", msg.Offset, err)
	}
	if event.Type == "" {
		return BookingEvent{}, fmt.Errorf("booking event at offset %d has no type", msg.Offset)
	}
	return event, nil
}
