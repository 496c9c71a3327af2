// Package repository defines the persistence layer for bookings.  Sentinel
// errors declared here let higher layers distinguish failure scenarios
// without inspecting driver errors.
package repository

import "errors"

// ErrBookingNotFound is returned when a delete targets an id that does
// not exist.  Handlers should translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")
