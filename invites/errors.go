package invites

import "errors"

// Validation and submission failures surfaced to the invitation page. The
// messages on these are user-facing; persistence internals are never exposed
// through them.
var (
	// ErrEmptyCode is returned when the submitted code is blank after trimming.
	ErrEmptyCode = errors.New("invitation code is required")

	// ErrCodeNotFound is returned when no code matches the normalized input.
	ErrCodeNotFound = errors.New("invitation code not found")

	// ErrCodeInactive is returned for codes an operator has deactivated,
	// regardless of remaining capacity.
	ErrCodeInactive = errors.New("invitation code is no longer active")

	// ErrCodeExpired is returned for codes whose expiry date has passed.
	ErrCodeExpired = errors.New("invitation code has expired")

	// ErrCodeExhausted is returned in rsvp mode when no seats remain. Access
	// mode never returns it so previously-confirmed guests can still view the
	// site.
	ErrCodeExhausted = errors.New("invitation code has no seats remaining")

	// ErrInvalidInput wraps per-field form validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoActiveCode is returned when a submission arrives without a
	// previously validated code.
	ErrNoActiveCode = errors.New("no validated invitation code for this session")

	// ErrDuplicateSubmission is returned when an RSVP already exists for the
	// code. Meaningful to the visitor, so it is passed through verbatim.
	ErrDuplicateSubmission = errors.New("an RSVP was already submitted for this invitation code")

	// ErrCapacityExceeded is returned when the requested guest count is larger
	// than the seats remaining on the code at validation time.
	ErrCapacityExceeded = errors.New("guest count exceeds the seats remaining on this invitation code")

	// ErrNotFound is returned by admin paths when the requested record is absent.
	ErrNotFound = errors.New("record not found")

	// ErrSubmissionFailed is the catch-all for persistence faults during
	// submission. The underlying cause is logged, never returned.
	ErrSubmissionFailed = errors.New("could not save the RSVP, please try again")

	// ErrStoreUnavailable is surfaced distinctly for destructive admin
	// operations; read paths degrade to empty results instead.
	ErrStoreUnavailable = errors.New("store unavailable")
)
