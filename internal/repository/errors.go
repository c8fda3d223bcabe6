// Package repository defines error types that are reused across
// multiple repositories.  Availability and lifecycle conflicts are
// reported with the booking package's sentinels so repositories can
// satisfy the engine's store interfaces directly.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
