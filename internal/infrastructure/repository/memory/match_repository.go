package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchbook-app/matchbook/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = m.Clone()
	}

	return &MatchRepository{items: items}
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item.Clone()

	return nil
}

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item.Clone()

	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}

	return m.Clone(), true, nil
}

func (r *MatchRepository) ListPublished(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.Status == match.StatusPublished {
			out = append(out, m.Clone())
		}
	}
	sortByDate(out)

	return out, nil
}

func (r *MatchRepository) ListByClub(_ context.Context, clubID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.ClubID == clubID {
			out = append(out, m.Clone())
		}
	}
	sortByDate(out)

	return out, nil
}

func sortByDate(matches []match.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Date.Equal(matches[j].Date) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Date.Before(matches[j].Date)
	})
}
