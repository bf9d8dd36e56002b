package memory

import (
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
)

const (
	SportCodeFootball   = "football"
	SportCodeFutsal     = "futsal"
	SportCodeBadminton  = "badminton"
	ClubIDSenayanSocial = "club-senayan-social"
	ClubIDKemangUnited  = "club-kemang-united"
)

func SeedSports() []sport.Sport {
	return []sport.Sport{
		{
			Code: SportCodeFootball,
			Name: "Football 11v11",
			Positions: []sport.Position{
				{Code: "gk", Name: "Goalkeeper", DefaultQuota: 2},
				{Code: "def", Name: "Defender", DefaultQuota: 8},
				{Code: "mid", Name: "Midfielder", DefaultQuota: 8},
				{Code: "fwd", Name: "Forward", DefaultQuota: 4},
			},
		},
		{
			Code: SportCodeFutsal,
			Name: "Futsal",
			Positions: []sport.Position{
				{Code: "gk", Name: "Goalkeeper", DefaultQuota: 2},
				{Code: "anchor", Name: "Anchor", DefaultQuota: 2},
				{Code: "flank", Name: "Flank", DefaultQuota: 4},
				{Code: "pivot", Name: "Pivot", DefaultQuota: 2},
			},
		},
		{
			Code: SportCodeBadminton,
			Name: "Badminton",
			Positions: []sport.Position{
				{Code: "player", Name: "Player", DefaultQuota: 8},
			},
		},
	}
}

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: ClubIDSenayanSocial, Name: "Senayan Social FC", OwnerUserID: "user-host-senayan"},
		{ID: ClubIDKemangUnited, Name: "Kemang United", OwnerUserID: "user-host-kemang"},
	}
}

func SeedMatches() []match.Match {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []match.Match{
		{
			ID:         "match-senayan-friday",
			ClubID:     ClubIDSenayanSocial,
			SportCode:  SportCodeFutsal,
			Title:      "Friday Night Futsal",
			Status:     match.StatusPublished,
			Date:       time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC),
			Location:   "Senayan Hall B",
			BasePrice:  75000,
			MaxPlayers: 10,
			PositionQuotas: map[string]int{
				"gk": 2, "anchor": 2, "flank": 4, "pivot": 2,
			},
			PositionPrices: map[string]int64{"gk": 50000},
			CreatedAt:      created,
			UpdatedAt:      created,
		},
		{
			ID:         "match-kemang-sunday",
			ClubID:     ClubIDKemangUnited,
			SportCode:  SportCodeBadminton,
			Title:      "Sunday Smash",
			Status:     match.StatusDraft,
			Date:       time.Date(2026, 9, 6, 8, 0, 0, 0, time.UTC),
			Location:   "Kemang Sports Center",
			BasePrice:  40000,
			MaxPlayers: 8,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}
}
