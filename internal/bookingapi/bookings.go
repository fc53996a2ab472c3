package bookingapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

// CreateBooking submits a reservation. The API answers with a Pending booking
// that expires unless confirmed in time.
func (c *Client) CreateBooking(ctx context.Context, req domain.CreateBookingRequest) (*domain.Booking, error) {
	var w bookingWire
	if err := c.do(ctx, http.MethodPost, "/bookings", nil, toCreateBookingWire(req), &w); err != nil {
		return nil, err
	}
	return c.toBooking(w)
}

func (c *Client) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	var ws []bookingWire
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, nil, &ws); err != nil {
		return nil, err
	}
	bookings := make([]*domain.Booking, 0, len(ws))
	for _, w := range ws {
		b, err := c.toBooking(w)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var w bookingWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", bookingID), nil, nil, &w); err != nil {
		return nil, err
	}
	return c.toBooking(w)
}

func (c *Client) ConfirmBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return c.transition(ctx, bookingID, "confirm")
}

func (c *Client) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return c.transition(ctx, bookingID, "cancel")
}

func (c *Client) transition(ctx context.Context, bookingID int64, action string) (*domain.Booking, error) {
	var w bookingWire
	path := fmt.Sprintf("/bookings/%d/%s", bookingID, action)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &w); err != nil {
		return nil, err
	}
	return c.toBooking(w)
}

type cleanupWire struct {
	Message string `json:"message"`
}

// CleanupExpired asks the API to cancel every Pending booking whose hold has
// run out. The endpoint needs no user token and answers with a summary line.
func (c *Client) CleanupExpired(ctx context.Context) (string, error) {
	var w cleanupWire
	if err := c.do(ctx, http.MethodPost, "/bookings/cleanup/expired", nil, nil, &w); err != nil {
		return "", err
	}
	return w.Message, nil
}
