package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

func newMatchService(bookings []booking.Booking) (*MatchService, *memory.MatchRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	service := NewMatchService(
		memory.NewSportRepository(memory.SeedSports()),
		memory.NewClubRepository(memory.SeedClubs()),
		matchRepo,
		memory.NewBookingRepository(bookings),
		&seqIDGenerator{prefix: "match"},
	)
	return service, matchRepo
}

func TestMatchService_Create_DraftWithQuotas(t *testing.T) {
	service, _ := newMatchService(nil)

	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.Create(t.Context(), CreateMatchInput{
		UserID:     "user-host-senayan",
		ClubID:     memory.ClubIDSenayanSocial,
		SportCode:  memory.SportCodeFutsal,
		Title:      "Wednesday Futsal",
		Date:       time.Date(2026, 9, 9, 19, 0, 0, 0, time.UTC),
		Location:   "Senayan Hall A",
		BasePrice:  60000,
		MaxPlayers: 10,
		PositionQuotas: map[string]int{
			"gk": 2, "anchor": 2, "flank": 4, "pivot": 2,
		},
		PositionPrices: map[string]int64{"gk": 45000},
	})
	if err != nil {
		t.Fatalf("create match failed: %v", err)
	}

	if created.Status != match.StatusDraft {
		t.Fatalf("expected draft status, got %s", created.Status)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, created.CreatedAt)
	}
	if created.PriceFor("gk") != 45000 {
		t.Fatalf("expected gk price 45000, got %d", created.PriceFor("gk"))
	}
	if created.PriceFor("pivot") != 60000 {
		t.Fatalf("expected pivot to fall back to base price, got %d", created.PriceFor("pivot"))
	}
}

func TestMatchService_Create_Rejections(t *testing.T) {
	service, _ := newMatchService(nil)

	base := CreateMatchInput{
		UserID:     "user-host-senayan",
		ClubID:     memory.ClubIDSenayanSocial,
		SportCode:  memory.SportCodeFutsal,
		Title:      "Bad Match",
		Date:       time.Date(2026, 9, 9, 19, 0, 0, 0, time.UTC),
		MaxPlayers: 10,
	}

	notOwner := base
	notOwner.UserID = "user-random"
	if _, err := service.Create(t.Context(), notOwner); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	badSum := base
	badSum.PositionQuotas = map[string]int{"gk": 2, "anchor": 2, "flank": 4, "pivot": 1}
	if _, err := service.Create(t.Context(), badSum); !errors.Is(err, match.ErrQuotaMismatch) {
		t.Fatalf("expected ErrQuotaMismatch for bad sum, got %v", err)
	}

	badPosition := base
	badPosition.PositionQuotas = map[string]int{"gk": 2, "striker": 8}
	if _, err := service.Create(t.Context(), badPosition); !errors.Is(err, match.ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}
}

func TestMatchService_Publish_Transitions(t *testing.T) {
	service, matchRepo := newMatchService(nil)

	published, err := service.Publish(t.Context(), "match-kemang-sunday", "user-host-kemang")
	if err != nil {
		t.Fatalf("publish draft failed: %v", err)
	}
	if published.Status != match.StatusPublished {
		t.Fatalf("expected published status, got %s", published.Status)
	}
	// Badminton has a single position, so the empty quota map materializes
	// with the full capacity on it.
	if got := published.PositionQuotas["player"]; got != 8 {
		t.Fatalf("expected player quota 8 from fallback, got %d", got)
	}

	// A second publish lands on the published->published edge, which is a
	// reschedule and demands a reason.
	if _, err := service.Publish(t.Context(), "match-kemang-sunday", "user-host-kemang"); !errors.Is(err, match.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired republishing, got %v", err)
	}

	cancelled := published.Clone()
	cancelled.Status = match.StatusCancelled
	if err := matchRepo.Update(t.Context(), cancelled); err != nil {
		t.Fatalf("seed cancelled match: %v", err)
	}
	if _, err := service.Publish(t.Context(), cancelled.ID, "user-host-kemang"); !errors.Is(err, match.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestMatchService_Publish_MultiPositionNeedsQuotas(t *testing.T) {
	service, _ := newMatchService(nil)

	created, err := service.Create(t.Context(), CreateMatchInput{
		UserID:     "user-host-senayan",
		ClubID:     memory.ClubIDSenayanSocial,
		SportCode:  memory.SportCodeFutsal,
		Title:      "Quota-less Futsal",
		Date:       time.Date(2026, 9, 9, 19, 0, 0, 0, time.UTC),
		MaxPlayers: 10,
	})
	if err != nil {
		t.Fatalf("create match failed: %v", err)
	}

	if _, err := service.Publish(t.Context(), created.ID, "user-host-senayan"); !errors.Is(err, match.ErrQuotaRequired) {
		t.Fatalf("expected ErrQuotaRequired, got %v", err)
	}
}

func TestMatchService_Update_OnlyDrafts(t *testing.T) {
	service, matchRepo := newMatchService(nil)

	title := "Renamed Smash"
	updated, err := service.Update(t.Context(), UpdateMatchInput{
		UserID:  "user-host-kemang",
		MatchID: "match-kemang-sunday",
		Title:   &title,
	})
	if err != nil {
		t.Fatalf("update draft failed: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected title %q, got %q", title, updated.Title)
	}

	if _, err := service.Update(t.Context(), UpdateMatchInput{
		UserID:  "user-host-senayan",
		MatchID: "match-senayan-friday",
		Title:   &title,
	}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict updating published match, got %v", err)
	}

	cancelled, _, err := matchRepo.GetByID(t.Context(), "match-kemang-sunday")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	cancelled.Status = match.StatusCancelled
	if err := matchRepo.Update(t.Context(), cancelled); err != nil {
		t.Fatalf("seed cancelled match: %v", err)
	}
	if _, err := service.Update(t.Context(), UpdateMatchInput{
		UserID:  "user-host-kemang",
		MatchID: "match-kemang-sunday",
		Title:   &title,
	}); !errors.Is(err, match.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestMatchService_Update_QuotaShrinkGuard(t *testing.T) {
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	service, matchRepo := newMatchService([]booking.Booking{
		{ID: "bk-1", MatchID: "match-kemang-sunday", UserID: "user-1", PositionCode: "player", Status: booking.StatusConfirmed, CreatedAt: now},
		{ID: "bk-2", MatchID: "match-kemang-sunday", UserID: "user-2", PositionCode: "player", Status: booking.StatusConfirmed, CreatedAt: now},
		{ID: "bk-3", MatchID: "match-kemang-sunday", UserID: "user-3", PositionCode: "player", Status: booking.StatusConfirmed, CreatedAt: now},
	})

	seeded, _, err := matchRepo.GetByID(t.Context(), "match-kemang-sunday")
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	seeded.PositionQuotas = map[string]int{"player": 8}
	if err := matchRepo.Update(t.Context(), seeded); err != nil {
		t.Fatalf("seed quotas: %v", err)
	}

	maxPlayers := 2
	_, err = service.Update(t.Context(), UpdateMatchInput{
		UserID:         "user-host-kemang",
		MatchID:        "match-kemang-sunday",
		MaxPlayers:     &maxPlayers,
		PositionQuotas: map[string]int{"player": 2},
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict shrinking below confirmed count, got %v", err)
	}

	maxPlayers = 4
	if _, err := service.Update(t.Context(), UpdateMatchInput{
		UserID:         "user-host-kemang",
		MatchID:        "match-kemang-sunday",
		MaxPlayers:     &maxPlayers,
		PositionQuotas: map[string]int{"player": 4},
	}); err != nil {
		t.Fatalf("shrink above confirmed count should pass: %v", err)
	}
}

func TestMatchService_CancelAndReschedule(t *testing.T) {
	service, _ := newMatchService(nil)

	if _, err := service.Cancel(t.Context(), "match-senayan-friday", "user-host-senayan", "  "); !errors.Is(err, match.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	rescheduled, err := service.Reschedule(t.Context(), RescheduleMatchInput{
		UserID:   "user-host-senayan",
		MatchID:  "match-senayan-friday",
		Date:     time.Date(2026, 9, 11, 20, 0, 0, 0, time.UTC),
		Location: "Senayan Hall C",
		Reason:   "venue double-booked",
	})
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if rescheduled.RescheduleReason != "venue double-booked" {
		t.Fatalf("expected reschedule reason recorded, got %q", rescheduled.RescheduleReason)
	}
	if rescheduled.Location != "Senayan Hall C" {
		t.Fatalf("expected new location, got %q", rescheduled.Location)
	}

	if _, err := service.Reschedule(t.Context(), RescheduleMatchInput{
		UserID:  "user-host-kemang",
		MatchID: "match-kemang-sunday",
		Date:    time.Date(2026, 9, 13, 8, 0, 0, 0, time.UTC),
		Reason:  "rain",
	}); !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict rescheduling a draft, got %v", err)
	}

	cancelled, err := service.Cancel(t.Context(), "match-senayan-friday", "user-host-senayan", "pitch flooded")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.CancelReason != "pitch flooded" {
		t.Fatalf("expected cancel reason recorded, got %q", cancelled.CancelReason)
	}

	if _, err := service.Cancel(t.Context(), "match-senayan-friday", "user-host-senayan", "again"); !errors.Is(err, match.ErrAlreadyCancelled) {
		t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
	}
}
