package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/matchbook-app/matchbook/internal/domain/team"
)

type TeamRepository struct {
	mu      sync.RWMutex
	teams   map[string]team.Team
	members map[string]team.Member
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams:   make(map[string]team.Team),
		members: make(map[string]team.Member),
	}
}

func (r *TeamRepository) ReplaceForMatch(_ context.Context, matchID string, rosters []team.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.teams {
		if t.MatchID != matchID {
			continue
		}
		delete(r.teams, id)
		for mid, m := range r.members {
			if m.TeamID == id {
				delete(r.members, mid)
			}
		}
	}

	for _, roster := range rosters {
		r.teams[roster.Team.ID] = roster.Team
		for _, m := range roster.Members {
			r.members[m.ID] = m
		}
	}

	return nil
}

func (r *TeamRepository) ListByMatch(_ context.Context, matchID string) ([]team.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Roster, 0)
	for _, t := range r.teams {
		if t.MatchID != matchID {
			continue
		}
		roster := team.Roster{Team: t}
		for _, m := range r.members {
			if m.TeamID == t.ID {
				roster.Members = append(roster.Members, m)
			}
		}
		sort.Slice(roster.Members, func(i, j int) bool {
			return roster.Members[i].ID < roster.Members[j].ID
		})
		out = append(out, roster)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Team.Name < out[j].Team.Name
	})

	return out, nil
}

func (r *TeamRepository) GetMemberByID(_ context.Context, memberID string) (team.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[memberID]
	if !ok {
		return team.Member{}, false, nil
	}

	return m, true, nil
}

func (r *TeamRepository) GetTeamByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}

func (r *TeamRepository) MoveMember(_ context.Context, memberID, targetTeamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[memberID]
	if !ok {
		return fmt.Errorf("team member %s not found", memberID)
	}
	if _, ok := r.teams[targetTeamID]; !ok {
		return fmt.Errorf("team %s not found", targetTeamID)
	}

	m.TeamID = targetTeamID
	r.members[memberID] = m

	return nil
}
