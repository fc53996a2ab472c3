// Package bookingview turns a fetched booking into UI-actionable flags.
// Every function is total: a nil booking is expired and allows nothing.
package bookingview

import (
	"fmt"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

const ExpiredLabel = "expired"

func IsExpired(b *domain.Booking, now time.Time) bool {
	if b == nil {
		return true
	}
	return !now.Before(b.ExpiresAt)
}

func CanConfirm(b *domain.Booking, now time.Time) bool {
	return b != nil && b.Status == domain.BookingStatusPending && !IsExpired(b, now)
}

func CanCancel(b *domain.Booking) bool {
	return b != nil && b.Status != domain.BookingStatusConfirmed
}

// Countdown is derived from the wall clock on every call and never kept in state.
type Countdown struct {
	Expired bool
	Seconds int64
}

func (c Countdown) String() string {
	if c.Expired {
		return ExpiredLabel
	}
	return fmt.Sprintf("%d:%02d", c.Seconds/60, c.Seconds%60)
}

func TimeRemaining(b *domain.Booking, now time.Time) Countdown {
	if IsExpired(b, now) {
		return Countdown{Expired: true}
	}
	return Countdown{Seconds: b.ExpiresAt.Sub(now).Milliseconds() / 1000}
}

type View struct {
	Status           domain.BookingStatus `json:"status"`
	Expired          bool                 `json:"expired"`
	CanConfirm       bool                 `json:"can_confirm"`
	CanCancel        bool                 `json:"can_cancel"`
	TimeRemaining    string               `json:"time_remaining"`
	SecondsRemaining int64                `json:"seconds_remaining"`
}

func Describe(b *domain.Booking, now time.Time) View {
	remaining := TimeRemaining(b, now)
	v := View{
		Expired:          IsExpired(b, now),
		CanConfirm:       CanConfirm(b, now),
		CanCancel:        CanCancel(b),
		TimeRemaining:    remaining.String(),
		SecondsRemaining: remaining.Seconds,
	}
	if b != nil {
		v.Status = b.Status
	}
	return v
}
