package handlers

import (
	"errors"
	"net/http"

	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/invites"
)

// inviteErrorStatus maps the invites error taxonomy onto HTTP responses.
// Validation failures carry their message verbatim; persistence faults stay
// generic so storage internals never leak to the visitor.
func inviteErrorStatus(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, invites.ErrEmptyCode),
		errors.Is(err, invites.ErrInvalidInput),
		errors.Is(err, invites.ErrCapacityExceeded):
		status = http.StatusBadRequest
	case errors.Is(err, invites.ErrNoActiveCode):
		status = http.StatusUnauthorized
	case errors.Is(err, invites.ErrCodeInactive),
		errors.Is(err, invites.ErrCodeExpired),
		errors.Is(err, invites.ErrCodeExhausted):
		status = http.StatusForbidden
	case errors.Is(err, invites.ErrCodeNotFound),
		errors.Is(err, invites.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, invites.ErrDuplicateSubmission):
		status = http.StatusConflict
	default:
		// the recorder collapses raw persistence faults before they get
		// here, so the message is already safe to show
		status = http.StatusInternalServerError
	}
	config.ErrorStatus(err.Error(), status, w, err)
}
