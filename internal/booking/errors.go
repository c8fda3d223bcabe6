// Package booking implements the reservation engine: availability
// checks over half-open date intervals, tiered price calculation, the
// booking lifecycle state machine and the orchestrating service.  The
// package owns no I/O; persistence and identity resolution are injected
// through small interfaces so every rule here is testable with a fixed
// clock and in-memory stores.
package booking

import "errors"

// Validation errors: the caller's input is malformed.  Never retried.
var (
	ErrInvalidDateRange     = errors.New("check-out must be after check-in and check-in must not be in the past")
	ErrInvalidInterval      = errors.New("invalid interval")
	ErrMissingBaseRate      = errors.New("property has no nightly rate")
	ErrMissingReference     = errors.New("payment reference is required")
	ErrInvalidPaymentMethod = errors.New("payment method must be gcash or maya")
	ErrTooManyGuests        = errors.New("guest count exceeds property capacity")
)

// Authorization errors: surfaced verbatim, no retry.
var (
	ErrUnauthorized = errors.New("not allowed to act on this booking")
	ErrSelfBooking  = errors.New("owners cannot book their own property")
)

// ErrDatesUnavailable is the expected business outcome when the
// requested range overlaps an active booking.  It is a normal failure
// result, not a system fault; callers recover by picking other dates.
var ErrDatesUnavailable = errors.New("property is not available for the selected dates")

// State-conflict errors: a concurrent writer got there first.  The
// caller must re-fetch current state before retrying.
var (
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrStateConflict    = errors.New("booking state changed, reload and retry")
)

// Not-found errors.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

// ErrUnpaidConfirmDisabled is returned when the legacy owner-side
// confirm-without-payment path is invoked but not enabled by
// configuration.
var ErrUnpaidConfirmDisabled = errors.New("confirming without payment is disabled")
