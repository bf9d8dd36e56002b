package team

import (
	"context"
	"errors"
)

// ErrBookingsChanged means the confirmed booking set no longer matches the
// rosters being written; the caller computed them from a stale read.
var ErrBookingsChanged = errors.New("confirmed bookings changed")

// Roster is a team together with its members.
type Roster struct {
	Team    Team
	Members []Member
}

// Repository owns team and member rows. ReplaceForMatch discards every prior
// roster for the match and writes the new split in one atomic unit.
type Repository interface {
	ReplaceForMatch(ctx context.Context, matchID string, rosters []Roster) error
	ListByMatch(ctx context.Context, matchID string) ([]Roster, error)
	GetMemberByID(ctx context.Context, memberID string) (Member, bool, error)
	GetTeamByID(ctx context.Context, teamID string) (Team, bool, error)
	MoveMember(ctx context.Context, memberID, targetTeamID string) error
}
