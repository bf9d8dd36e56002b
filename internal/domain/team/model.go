package team

import "time"

// Team is one side of a generated split for a match.
type Team struct {
	ID        string
	MatchID   string
	Name      string
	Color     string
	CreatedAt time.Time
}

// Member assigns one booking (and therefore one user) to a team. A user
// belongs to at most one team per match.
type Member struct {
	ID        string
	TeamID    string
	BookingID string
	UserID    string
}

// Names and colors are deterministic from the team index so repeated
// generations are visually distinguishable but carry no meaning.
var (
	names  = []string{"Team A", "Team B", "Team C", "Team D", "Team E", "Team F", "Team G", "Team H"}
	colors = []string{"#E53935", "#1E88E5", "#43A047", "#FDD835", "#8E24AA", "#FB8C00", "#00ACC1", "#6D4C41"}
)

func NameForIndex(i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return ""
}

func ColorForIndex(i int) string {
	if i >= 0 && i < len(colors) {
		return colors[i]
	}
	return ""
}

// MaxTeams is the largest split the fixed palette supports.
const MaxTeams = 8
