package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrDraftNotFound = errors.New("draft not found")
)

var (
	ErrBookingExpired     = errors.New("booking has expired")
	ErrBookingNotPending  = errors.New("booking is not in pending status")
	ErrSubmissionInFlight = errors.New("booking submission already in progress")
	ErrDraftSubmitted     = errors.New("draft has already been submitted")
)

var (
	ErrValidation        = errors.New("validation error")
	ErrUnknownTicketType = errors.New("ticket type is not offered for this flight")
	ErrUnknownAddon      = errors.New("addon option is not available")
	ErrTooManyPassengers = errors.New("passenger limit reached")
)

var (
	ErrUnauthorized = errors.New("sign in required")
	ErrUpstream     = errors.New("booking api error")
)
