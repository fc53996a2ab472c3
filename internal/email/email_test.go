package email

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRender_Created(t *testing.T) {
	msg, ok := Render(kafka.BookingEvent{
		Type:       kafka.EventBookingCreated,
		BookingID:  55,
		FlightID:   7,
		Subject:    "a@b.c",
		TotalPrice: 2150000,
		ExpiresAt:  time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC),
	})
	require.True(t, ok)
	assert.Equal(t, "a@b.c", msg.To)
	assert.Equal(t, "Booking received #55", msg.Subject)
	assert.Contains(t, msg.Body, "Total: 2150000")
	assert.Contains(t, msg.Body, "01/03/2025 08:30")
}

func TestRender_UnknownType(t *testing.T) {
	_, ok := Render(kafka.BookingEvent{Type: "seat_changed"})
	assert.False(t, ok)
}

func TestSender_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewSender(zap.New(core))

	require.NoError(t, s.Send(context.Background(), kafka.BookingEvent{
		Type: kafka.EventBookingConfirmed, BookingID: 55, Subject: "a@b.c",
	}))
	require.NoError(t, s.Send(context.Background(), kafka.BookingEvent{
		Type: kafka.EventBookingExpired, BookingID: 56,
	}))

	sent := logs.FilterMessage("email sent").All()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@b.c", sent[0].ContextMap()["to"])
	assert.Equal(t, 1, logs.FilterMessage("event has no recipient").Len())
}
