package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
)

type BookingRepository struct {
	mu    sync.RWMutex
	items map[string]booking.Booking
}

func NewBookingRepository(bookings []booking.Booking) *BookingRepository {
	items := make(map[string]booking.Booking, len(bookings))
	for _, b := range bookings {
		items[b.ID] = b
	}

	return &BookingRepository{items: items}
}

// Reserve runs the capacity check and the insert under one write lock, which
// makes the check-then-insert atomic for every caller on the repository.
func (r *BookingRepository) Reserve(_ context.Context, item booking.Booking, quota int) (booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	confirmed := 0
	for _, b := range r.items {
		if b.MatchID != item.MatchID || b.Status != booking.StatusConfirmed {
			continue
		}
		if b.UserID == item.UserID {
			return booking.Booking{}, booking.ErrDuplicateUser
		}
		if b.PositionCode == item.PositionCode {
			confirmed++
		}
	}
	if confirmed >= quota {
		return booking.Booking{}, booking.ErrCapacityExceeded
	}

	r.items[item.ID] = item

	return item, nil
}

func (r *BookingRepository) GetByID(_ context.Context, bookingID string) (booking.Booking, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[bookingID]
	if !ok {
		return booking.Booking{}, false, nil
	}

	return b, true, nil
}

func (r *BookingRepository) Update(_ context.Context, item booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("booking %s not found", item.ID)
	}
	r.items[item.ID] = item

	return nil
}

func (r *BookingRepository) ListConfirmedByMatch(_ context.Context, matchID string) ([]booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]booking.Booking, 0)
	for _, b := range r.items {
		if b.MatchID == matchID && b.Status == booking.StatusConfirmed {
			out = append(out, b)
		}
	}

	return out, nil
}

func (r *BookingRepository) CountConfirmedByPosition(_ context.Context, matchID string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, b := range r.items {
		if b.MatchID == matchID && b.Status == booking.StatusConfirmed {
			counts[b.PositionCode]++
		}
	}

	return counts, nil
}
