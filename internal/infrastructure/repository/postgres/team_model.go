package postgres

import (
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/team"
)

type teamTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchPublicID string    `db:"match_public_id"`
	Name          string    `db:"name"`
	Color         string    `db:"color"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.PublicID,
		MatchID:   m.MatchPublicID,
		Name:      m.Name,
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
	}
}

type teamMemberTableModel struct {
	ID              int64  `db:"id"`
	PublicID        string `db:"public_id"`
	TeamPublicID    string `db:"team_public_id"`
	BookingPublicID string `db:"booking_public_id"`
	UserID          string `db:"user_id"`
}

func (m teamMemberTableModel) toDomain() team.Member {
	return team.Member{
		ID:        m.PublicID,
		TeamID:    m.TeamPublicID,
		BookingID: m.BookingPublicID,
		UserID:    m.UserID,
	}
}
