package memory

import (
	"context"
	"sync"

	"github.com/matchbook-app/matchbook/internal/domain/sport"
)

type SportRepository struct {
	mu     sync.RWMutex
	items  map[string]sport.Sport
	orders []string
}

func NewSportRepository(sports []sport.Sport) *SportRepository {
	items := make(map[string]sport.Sport, len(sports))
	orders := make([]string, 0, len(sports))

	for _, s := range sports {
		items[s.Code] = s
		orders = append(orders, s.Code)
	}

	return &SportRepository{
		items:  items,
		orders: orders,
	}
}

func (r *SportRepository) List(_ context.Context) ([]sport.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sport.Sport, 0, len(r.orders))
	for _, code := range r.orders {
		out = append(out, r.items[code])
	}

	return out, nil
}

func (r *SportRepository) GetByCode(_ context.Context, code string) (sport.Sport, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[code]
	if !ok {
		return sport.Sport{}, false, nil
	}

	return s, true, nil
}

func (r *SportRepository) Upsert(_ context.Context, item sport.Sport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.Code]; !ok {
		r.orders = append(r.orders, item.Code)
	}
	r.items[item.Code] = item

	return nil
}
