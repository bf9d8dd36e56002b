package booking

import "time"

// Status of a booking. Cancellation is soft: the row stays, the slot frees.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is one occupied position slot on a match.
type Booking struct {
	ID           string
	MatchID      string
	UserID       string
	PositionCode string
	Status       Status
	Price        int64
	IsPaid       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PositionCount is the live confirmed count against a position quota,
// the "N/quota" projection the client renders.
type PositionCount struct {
	PositionCode string
	Quota        int
	Confirmed    int
}
