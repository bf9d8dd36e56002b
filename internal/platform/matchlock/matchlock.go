package matchlock

import "sync"

// Map hands out one mutex per match ID. Roster regeneration and the booking
// ledger share a Map so a regeneration cannot interleave with a reservation
// or cancellation on the same match; locks for different matches are
// independent. Entries are never evicted: a deployment sees a bounded number
// of live matches and a bare mutex is cheap.
type Map struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMap() *Map {
	return &Map{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for matchID, creating it on first use, and returns
// the unlock function.
func (m *Map) Lock(matchID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[matchID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[matchID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
