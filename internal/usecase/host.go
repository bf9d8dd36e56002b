package usecase

import (
	"context"
	"fmt"

	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
)

// requireHost authorizes host-only operations: publish, cancel, reschedule,
// paid toggles and team management all belong to the club owner.
func requireHost(ctx context.Context, clubRepo club.Repository, m match.Match, userID string) error {
	owner, exists, err := clubRepo.GetByID(ctx, m.ClubID)
	if err != nil {
		return fmt.Errorf("get club by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: club=%s", ErrNotFound, m.ClubID)
	}
	if owner.OwnerUserID != userID {
		return fmt.Errorf("%w: only the match host may do this", ErrForbidden)
	}

	return nil
}
