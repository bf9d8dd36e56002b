package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	clubmock "github.com/matchbook-app/matchbook/internal/mocks/domain/club"
)

func TestRequireHost(t *testing.T) {
	item := match.Match{ID: "match-senayan-friday", ClubID: "club-senayan"}
	anyCtx := mock.MatchedBy(func(v context.Context) bool { return v != nil })

	t.Run("owner passes", func(t *testing.T) {
		repo := clubmock.NewRepository(t)
		repo.On("GetByID", anyCtx, "club-senayan").
			Return(club.Club{ID: "club-senayan", OwnerUserID: "user-host-senayan"}, true, nil).
			Once()

		if err := requireHost(t.Context(), repo, item, "user-host-senayan"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := clubmock.NewRepository(t)
		repo.On("GetByID", anyCtx, "club-senayan").
			Return(club.Club{ID: "club-senayan", OwnerUserID: "user-host-senayan"}, true, nil).
			Once()

		err := requireHost(t.Context(), repo, item, "user-stranger")
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("missing club maps to not found", func(t *testing.T) {
		repo := clubmock.NewRepository(t)
		repo.On("GetByID", anyCtx, "club-senayan").
			Return(club.Club{}, false, nil).
			Once()

		err := requireHost(t.Context(), repo, item, "user-host-senayan")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := clubmock.NewRepository(t)
		repo.On("GetByID", anyCtx, "club-senayan").
			Return(club.Club{}, false, fmt.Errorf("connection reset")).
			Once()

		if err := requireHost(t.Context(), repo, item, "user-host-senayan"); err == nil {
			t.Fatalf("expected error from repository")
		}
	})
}
