package usecase

import (
	"errors"
	"fmt"
)

// Taxonomy roots. Handlers map these to HTTP statuses; everything a service
// returns wraps exactly one of them.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrStateConflict         = errors.New("conflicting state")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrPositionFull is its own root: capacity exhaustion is expected under
	// contention and clients handle it differently from stale-state errors.
	ErrPositionFull = errors.New("position is fully booked")
)

// Booking ledger errors.
var (
	ErrInvalidPosition  = fmt.Errorf("%w: position is not open on this match", ErrInvalidInput)
	ErrMatchNotBookable = fmt.Errorf("%w: match is not open for booking", ErrStateConflict)
	ErrAlreadyBooked    = fmt.Errorf("%w: user already holds a confirmed booking on this match", ErrStateConflict)
	ErrBookingCancelled = fmt.Errorf("%w: booking is already cancelled", ErrStateConflict)
)

// Team assignment errors.
var (
	ErrNoConfirmedBookings = fmt.Errorf("%w: match has no confirmed bookings", ErrStateConflict)
	ErrCrossMatchMove      = fmt.Errorf("%w: target team belongs to a different match", ErrStateConflict)
)
