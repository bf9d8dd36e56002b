package booking

import (
	"context"
	"errors"
)

// Storage-level sentinels for the conditional reserve. Implementations must
// return these so the ledger can translate them into caller-facing errors.
var (
	// ErrCapacityExceeded means the position already holds quota confirmed
	// bookings at the moment of the insert.
	ErrCapacityExceeded = errors.New("position capacity exceeded")
	// ErrDuplicateUser means the user already holds a confirmed booking on
	// the match, regardless of position.
	ErrDuplicateUser = errors.New("user already holds a confirmed booking")
	// ErrMatchNotOpen means the match was no longer published (or no longer
	// existed) at the moment of the insert.
	ErrMatchNotOpen = errors.New("match is not open for booking")
)

// Repository is the booking ledger's storage contract.
//
// Reserve is the single concurrency-critical operation: checking the
// confirmed count for item.PositionCode against quota and inserting the
// confirmed row must be one atomic unit relative to other callers on the same
// match. Implementations serialize per match (mutex or row lock + tx).
type Repository interface {
	Reserve(ctx context.Context, item Booking, quota int) (Booking, error)
	GetByID(ctx context.Context, bookingID string) (Booking, bool, error)
	Update(ctx context.Context, item Booking) error
	ListConfirmedByMatch(ctx context.Context, matchID string) ([]Booking, error)
	CountConfirmedByPosition(ctx context.Context, matchID string) (map[string]int, error)
}
