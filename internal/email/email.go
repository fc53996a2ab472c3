package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers booking notifications. Delivery is a structured log line;
// there is no mail transport.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, ok := Render(event)
	if !ok {
		s.log.Debug("no notification for event", zap.String("type", event.Type))
		return nil
	}
	if msg.To == "" {
		s.log.Warn("event has no recipient", zap.Int64("booking_id", event.BookingID))
		return nil
	}
	s.log.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int64("booking_id", event.BookingID),
	)
	return nil
}

// Render returns false for event types that do not notify the customer.
func Render(event kafka.BookingEvent) (Message, bool) {
	var subject, action string
	switch event.Type {
	case kafka.EventBookingCreated:
		subject, action = "Booking received", "was received and is awaiting confirmation"
	case kafka.EventBookingConfirmed:
		subject, action = "Booking confirmed", "is confirmed"
	case kafka.EventBookingCancelled:
		subject, action = "Booking cancelled", "was cancelled"
	case kafka.EventBookingExpired:
		subject, action = "Booking expired", "expired before it was confirmed"
	default:
		return Message{}, false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your booking #%d for flight %d %s.\n", event.BookingID, event.FlightID, action)
	fmt.Fprintf(&b, "Total: %d\n", event.TotalPrice)
	if event.Type == kafka.EventBookingCreated && !event.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, "Please confirm before %s.\n", event.ExpiresAt.Format("02/01/2006 15:04"))
	}
	return Message{
		To:      event.Subject,
		Subject: fmt.Sprintf("%s #%d", subject, event.BookingID),
		Body:    b.String(),
	}, true
}
