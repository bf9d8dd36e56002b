package match

import "time"

// Status is the lifecycle state of a match.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
)

var AllStatuses = map[Status]struct{}{
	StatusDraft:     {},
	StatusPublished: {},
	StatusCancelled: {},
}

// Match owns its quota and price maps exclusively; nothing outside the match
// service mutates them.
type Match struct {
	ID               string
	ClubID           string
	SportCode        string
	Title            string
	Description      string
	Status           Status
	Date             time.Time
	Location         string
	BasePrice        int64
	MaxPlayers       int
	PositionQuotas   map[string]int
	PositionPrices   map[string]int64
	RescheduleReason string
	CancelReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PriceFor resolves the booking price for a position, falling back to the
// match base price when no per-position price is set.
func (m Match) PriceFor(positionCode string) int64 {
	if price, ok := m.PositionPrices[positionCode]; ok {
		return price
	}
	return m.BasePrice
}

// OpenPosition reports whether the position is bookable on this match.
func (m Match) OpenPosition(positionCode string) bool {
	_, ok := m.PositionQuotas[positionCode]
	return ok
}

// Clone deep-copies the quota and price maps so callers cannot alias them.
func (m Match) Clone() Match {
	copied := m
	if m.PositionQuotas != nil {
		copied.PositionQuotas = make(map[string]int, len(m.PositionQuotas))
		for k, v := range m.PositionQuotas {
			copied.PositionQuotas[k] = v
		}
	}
	if m.PositionPrices != nil {
		copied.PositionPrices = make(map[string]int64, len(m.PositionPrices))
		for k, v := range m.PositionPrices {
			copied.PositionPrices[k] = v
		}
	}
	return copied
}
