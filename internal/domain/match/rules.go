package match

import (
	"errors"
	"fmt"

	"github.com/matchbook-app/matchbook/internal/domain/sport"
)

var (
	ErrQuotaMismatch    = errors.New("position quotas do not sum to max players")
	ErrUnknownPosition  = errors.New("unknown position code for sport")
	ErrQuotaRequired    = errors.New("position quotas are required to publish")
	ErrAlreadyCancelled = errors.New("match is cancelled")
	ErrIllegalStatus    = errors.New("illegal status transition")
	ErrReasonRequired   = errors.New("a reason is required")
)

// ValidateQuotas enforces the capacity invariant: quota keys must belong to
// the sport's position set and, when any quota is set, the quotas must sum to
// maxPlayers exactly.
func ValidateQuotas(maxPlayers int, quotas map[string]int, s sport.Sport) error {
	if maxPlayers <= 0 {
		return fmt.Errorf("max players must be greater than zero")
	}
	if len(quotas) == 0 {
		return nil
	}

	total := 0
	for code, quota := range quotas {
		if !s.HasPosition(code) {
			return fmt.Errorf("%w: %s", ErrUnknownPosition, code)
		}
		if quota < 0 {
			return fmt.Errorf("quota for position %s cannot be negative", code)
		}
		total += quota
	}

	if total != maxPlayers {
		return fmt.Errorf("%w: quotas=%d max_players=%d", ErrQuotaMismatch, total, maxPlayers)
	}

	return nil
}

// ValidatePrices rejects price entries for positions outside the quota map.
func ValidatePrices(prices map[string]int64, quotas map[string]int) error {
	for code, price := range prices {
		if _, ok := quotas[code]; !ok {
			return fmt.Errorf("%w: price set for %s", ErrUnknownPosition, code)
		}
		if price < 0 {
			return fmt.Errorf("price for position %s cannot be negative", code)
		}
	}
	return nil
}

// Transition checks the lifecycle table. Cancelled is terminal. A
// published->published transition is a reschedule and must carry a reason, as
// must any cancellation.
func Transition(current, target Status, reason string) error {
	if current == StatusCancelled {
		return ErrAlreadyCancelled
	}

	switch {
	case current == StatusDraft && target == StatusPublished:
		return nil
	case current == StatusDraft && target == StatusCancelled,
		current == StatusPublished && target == StatusCancelled:
		if reason == "" {
			return fmt.Errorf("%w to cancel a match", ErrReasonRequired)
		}
		return nil
	case current == StatusPublished && target == StatusPublished:
		if reason == "" {
			return fmt.Errorf("%w to reschedule a published match", ErrReasonRequired)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s -> %s", ErrIllegalStatus, current, target)
	}
}
