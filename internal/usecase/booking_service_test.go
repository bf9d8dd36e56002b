package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/infrastructure/repository/memory"
	"github.com/matchbook-app/matchbook/internal/platform/matchlock"
)

func newBookingService(matches []match.Match, bookings []booking.Booking) *BookingService {
	return NewBookingService(
		memory.NewSportRepository(memory.SeedSports()),
		memory.NewMatchRepository(matches),
		memory.NewClubRepository(memory.SeedClubs()),
		memory.NewBookingRepository(bookings),
		matchlock.NewMap(),
		&seqIDGenerator{prefix: "bk"},
	)
}

func TestBookingService_Reserve(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	reserved, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "gk",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if reserved.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", reserved.Status)
	}
	if reserved.Price != 50000 {
		t.Fatalf("expected gk position price 50000, got %d", reserved.Price)
	}
	if !reserved.CreatedAt.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, reserved.CreatedAt)
	}

	flank, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-2",
		PositionCode: "flank",
	})
	if err != nil {
		t.Fatalf("reserve flank failed: %v", err)
	}
	if flank.Price != 75000 {
		t.Fatalf("expected flank to fall back to base price, got %d", flank.Price)
	}
}

func TestBookingService_Reserve_Rejections(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-missing",
		UserID:       "user-1",
		PositionCode: "gk",
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-kemang-sunday",
		UserID:       "user-1",
		PositionCode: "player",
	}); !errors.Is(err, ErrMatchNotBookable) {
		t.Fatalf("expected ErrMatchNotBookable for draft match, got %v", err)
	}

	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "striker",
	}); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}

	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "gk",
	}); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "pivot",
	}); !errors.Is(err, ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked on second position, got %v", err)
	}
}

func TestBookingService_Reserve_ConcurrentBurst(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	service := newBookingService([]match.Match{{
		ID:             "match-burst",
		ClubID:         memory.ClubIDKemangUnited,
		SportCode:      memory.SportCodeBadminton,
		Title:          "Oversubscribed Smash",
		Status:         match.StatusPublished,
		Date:           time.Date(2026, 9, 6, 8, 0, 0, 0, time.UTC),
		BasePrice:      40000,
		MaxPlayers:     9,
		PositionQuotas: map[string]int{"player": 9},
		CreatedAt:      created,
		UpdatedAt:      created,
	}}, nil)

	const callers = 12

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Reserve(t.Context(), ReserveInput{
				MatchID:      "match-burst",
				UserID:       fmt.Sprintf("user-%02d", i),
				PositionCode: "player",
			})
		}(i)
	}
	wg.Wait()

	confirmed, full := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			confirmed++
		case errors.Is(err, ErrPositionFull):
			full++
		default:
			t.Fatalf("unexpected reserve error: %v", err)
		}
	}
	if confirmed != 9 || full != 3 {
		t.Fatalf("expected 9 confirmed and 3 rejected, got %d/%d", confirmed, full)
	}

	availability, err := service.Availability(t.Context(), "match-burst")
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if got := availability.Positions[0].Confirmed; got != 9 {
		t.Fatalf("expected 9 confirmed in availability, got %d", got)
	}
}

func TestBookingService_Cancel_FreesSlot(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	first, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "pivot",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-2",
		PositionCode: "pivot",
	}); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	// Pivot quota is 2; a third user is turned away until a slot frees.
	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-3",
		PositionCode: "pivot",
	}); !errors.Is(err, ErrPositionFull) {
		t.Fatalf("expected ErrPositionFull, got %v", err)
	}

	if err := service.Cancel(t.Context(), first.ID, "user-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-3",
		PositionCode: "pivot",
	}); err != nil {
		t.Fatalf("reserve after cancel should succeed: %v", err)
	}

	if err := service.Cancel(t.Context(), first.ID, "user-1"); !errors.Is(err, ErrBookingCancelled) {
		t.Fatalf("expected ErrBookingCancelled on double cancel, got %v", err)
	}
}

func TestBookingService_Cancel_Authorization(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	reserved, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "anchor",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := service.Cancel(t.Context(), reserved.ID, "user-stranger"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	// The match host may cancel someone else's booking.
	if err := service.Cancel(t.Context(), reserved.ID, "user-host-senayan"); err != nil {
		t.Fatalf("host cancel failed: %v", err)
	}
}

func TestBookingService_SetPaid_HostOnly(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	reserved, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "anchor",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := service.SetPaid(t.Context(), reserved.ID, "user-1", true); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for booker, got %v", err)
	}
	if err := service.SetPaid(t.Context(), reserved.ID, "user-host-senayan", true); err != nil {
		t.Fatalf("host set paid failed: %v", err)
	}
}

func TestBookingService_Availability_SportOrder(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	for i, position := range []string{"flank", "gk", "flank"} {
		if _, err := service.Reserve(t.Context(), ReserveInput{
			MatchID:      "match-senayan-friday",
			UserID:       fmt.Sprintf("user-%d", i),
			PositionCode: position,
		}); err != nil {
			t.Fatalf("reserve %s failed: %v", position, err)
		}
	}

	availability, err := service.Availability(t.Context(), "match-senayan-friday")
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}

	wantOrder := []string{"gk", "anchor", "flank", "pivot"}
	if len(availability.Positions) != len(wantOrder) {
		t.Fatalf("expected %d positions, got %d", len(wantOrder), len(availability.Positions))
	}
	for i, want := range wantOrder {
		if availability.Positions[i].PositionCode != want {
			t.Fatalf("expected position %s at index %d, got %s", want, i, availability.Positions[i].PositionCode)
		}
	}
	if availability.Positions[0].Confirmed != 1 || availability.Positions[2].Confirmed != 2 {
		t.Fatalf("unexpected confirmed counts: %+v", availability.Positions)
	}
	if availability.Positions[1].Confirmed != 0 || availability.Positions[1].Quota != 2 {
		t.Fatalf("expected untouched anchor 0/2, got %+v", availability.Positions[1])
	}
}

func TestBookingService_AvailabilityForMatches(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)

	results, err := service.AvailabilityForMatches(t.Context(), []string{"match-senayan-friday", "match-kemang-sunday"})
	if err != nil {
		t.Fatalf("availability fan-out failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].MatchID != "match-senayan-friday" || results[1].MatchID != "match-kemang-sunday" {
		t.Fatalf("expected results in request order, got %+v", results)
	}

	if _, err := service.AvailabilityForMatches(t.Context(), []string{"match-senayan-friday", "match-missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown match, got %v", err)
	}
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturingPublisher) Publish(_ context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) countOf(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func TestBookingService_Cancel_ConcurrentCancels(t *testing.T) {
	service := newBookingService(memory.SeedMatches(), nil)
	events := &capturingPublisher{}
	service.SetEventPublisher(events)

	reserved, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "pivot",
	})
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	// The booker and the host race to cancel the same booking; exactly one
	// wins, the rest see it already cancelled.
	cancellers := []string{"user-1", "user-host-senayan", "user-1", "user-host-senayan"}

	var wg sync.WaitGroup
	errs := make([]error, len(cancellers))
	for i, byUserID := range cancellers {
		wg.Add(1)
		go func(i int, byUserID string) {
			defer wg.Done()
			errs[i] = service.Cancel(t.Context(), reserved.ID, byUserID)
		}(i, byUserID)
	}
	wg.Wait()

	cancelled, already := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			cancelled++
		case errors.Is(err, ErrBookingCancelled):
			already++
		default:
			t.Fatalf("unexpected cancel error: %v", err)
		}
	}
	if cancelled != 1 || already != len(cancellers)-1 {
		t.Fatalf("expected exactly one winning cancel, got %d/%d", cancelled, already)
	}
	if got := events.countOf(EventBookingCancelled); got != 1 {
		t.Fatalf("expected a single booking.cancelled event, got %d", got)
	}
}

// closedMatchBookingRepository simulates a ledger that finds the match no
// longer open at insert time, after the service's status read saw it
// published.
type closedMatchBookingRepository struct {
	*memory.BookingRepository
}

func (r *closedMatchBookingRepository) Reserve(context.Context, booking.Booking, int) (booking.Booking, error) {
	return booking.Booking{}, booking.ErrMatchNotOpen
}

func TestBookingService_Reserve_MatchClosesBeforeInsert(t *testing.T) {
	service := NewBookingService(
		memory.NewSportRepository(memory.SeedSports()),
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewClubRepository(memory.SeedClubs()),
		&closedMatchBookingRepository{memory.NewBookingRepository(nil)},
		matchlock.NewMap(),
		&seqIDGenerator{prefix: "bk"},
	)

	_, err := service.Reserve(t.Context(), ReserveInput{
		MatchID:      "match-senayan-friday",
		UserID:       "user-1",
		PositionCode: "gk",
	})
	if !errors.Is(err, ErrMatchNotBookable) {
		t.Fatalf("expected ErrMatchNotBookable, got %v", err)
	}
}
