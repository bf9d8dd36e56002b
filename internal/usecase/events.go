package usecase

import (
	"context"
	"time"
)

// Event types emitted by the engine for the notification collaborator.
const (
	EventMatchPublished   = "match.published"
	EventMatchCancelled   = "match.cancelled"
	EventMatchRescheduled = "match.rescheduled"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventTeamsGenerated   = "teams.generated"
)

// Event is the outward fact published after a successful mutation. Delivery
// is best effort; no operation fails because an event could not be sent.
type Event struct {
	Type         string    `json:"type"`
	MatchID      string    `json:"match_id"`
	BookingID    string    `json:"booking_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	PositionCode string    `json:"position_code,omitempty"`
	TeamCount    int       `json:"team_count,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher accepts events for asynchronous delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
