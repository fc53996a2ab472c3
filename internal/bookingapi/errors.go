package bookingapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Domenick1991/airbooking-web/internal/domain"
)

// APIError is a non-2xx answer from the booking API. Detail is the message the
// API wants shown to the user.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %d %s", e.StatusCode, e.Detail)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	default:
		return domain.ErrUpstream
	}
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Detail: http.StatusText(status)}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
			e.Detail = text
		}
		return e
	}

	var msg string
	if err := json.Unmarshal(payload.Detail, &msg); err == nil {
		e.Detail = msg
		return e
	}

	// Validation failures arrive as a list of {loc, msg}.
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			msgs = append(msgs, it.Msg)
		}
		e.Detail = strings.Join(msgs, "; ")
		return e
	}

	e.Detail = string(payload.Detail)
	return e
}
