package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airbooking-web/internal/bookingapi"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/Domenick1991/airbooking-web/internal/draft"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error          string `json:"error"`
	Reason         string `json:"reason,omitempty"`
	PassengerIndex *int   `json:"passenger_index,omitempty"`
}

// handleError maps service errors to statuses. The booking API's own message
// is shown as is when it rejected the call.
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	msg := err.Error()
	var apiErr *bookingapi.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Detail
	}

	var vErr *draft.ValidationError
	if errors.As(err, &vErr) {
		idx := vErr.PassengerIndex
		c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Reason: vErr.Reason, PassengerIndex: &idx})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: msg})

	case errors.Is(err, domain.ErrBookingExpired),
		errors.Is(err, domain.ErrBookingNotPending),
		errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrDraftSubmitted):
		c.JSON(http.StatusConflict, errorResponse{Error: msg})

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUnknownTicketType),
		errors.Is(err, domain.ErrUnknownAddon),
		errors.Is(err, domain.ErrTooManyPassengers):
		c.JSON(http.StatusBadRequest, errorResponse{Error: msg})

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})

	case errors.Is(err, domain.ErrUpstream):
		c.JSON(http.StatusBadGateway, errorResponse{Error: msg})

	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
