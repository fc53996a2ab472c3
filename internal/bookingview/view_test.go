package bookingview

import (
	"testing"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func pending(expiresIn time.Duration) *domain.Booking {
	return &domain.Booking{ID: 1, Status: domain.BookingStatusPending, ExpiresAt: now.Add(expiresIn)}
}

func TestPendingWithinDeadline(t *testing.T) {
	b := pending(5 * time.Minute)

	assert.False(t, IsExpired(b, now))
	assert.True(t, CanConfirm(b, now))
	assert.Equal(t, "5:00", TimeRemaining(b, now).String())
	assert.Equal(t, "4:58", TimeRemaining(b, now.Add(1500*time.Millisecond)).String())
}

func TestPendingAfterDeadline(t *testing.T) {
	b := pending(5 * time.Minute)
	later := now.Add(5*time.Minute + time.Second)

	assert.True(t, IsExpired(b, later))
	assert.False(t, CanConfirm(b, later))

	left := TimeRemaining(b, later)
	assert.True(t, left.Expired)
	assert.Equal(t, ExpiredLabel, left.String())
}

func TestExpiryBoundaryIsExpired(t *testing.T) {
	b := pending(time.Minute)
	at := b.ExpiresAt

	assert.True(t, IsExpired(b, at))
	assert.False(t, CanConfirm(b, at))
	assert.True(t, TimeRemaining(b, at).Expired)
	assert.False(t, IsExpired(b, at.Add(-time.Millisecond)))
}

func TestCanConfirm_RequiresPending(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.BookingStatusConfirmed, domain.BookingStatusCancelled} {
		b := &domain.Booking{Status: status, ExpiresAt: now.Add(time.Hour)}
		assert.False(t, CanConfirm(b, now), status)
	}
}

func TestCanCancel(t *testing.T) {
	assert.False(t, CanCancel(&domain.Booking{Status: domain.BookingStatusConfirmed}))
	assert.True(t, CanCancel(&domain.Booking{Status: domain.BookingStatusPending}))
	assert.True(t, CanCancel(&domain.Booking{Status: domain.BookingStatusCancelled}))
}

func TestCountdownFormatting(t *testing.T) {
	cases := []struct {
		left time.Duration
		want string
	}{
		{left: 30 * time.Minute, want: "30:00"},
		{left: 61 * time.Second, want: "1:01"},
		{left: 9*time.Second + 999*time.Millisecond, want: "0:09"},
		{left: 75 * time.Minute, want: "75:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TimeRemaining(pending(tc.left), now).String(), tc.left.String())
	}
}

func TestNilBookingIsTotal(t *testing.T) {
	assert.NotPanics(t, func() {
		v := Describe(nil, now)
		assert.True(t, v.Expired)
		assert.False(t, v.CanConfirm)
		assert.False(t, v.CanCancel)
		assert.Equal(t, ExpiredLabel, v.TimeRemaining)
	})
}

func TestZeroExpiryIsExpired(t *testing.T) {
	b := &domain.Booking{Status: domain.BookingStatusPending}
	assert.True(t, IsExpired(b, now))
	assert.False(t, CanConfirm(b, now))
}

func TestDescribe(t *testing.T) {
	v := Describe(pending(90*time.Second), now)

	assert.Equal(t, View{
		Status:           domain.BookingStatusPending,
		CanConfirm:       true,
		CanCancel:        true,
		TimeRemaining:    "1:30",
		SecondsRemaining: 90,
	}, v)
}
