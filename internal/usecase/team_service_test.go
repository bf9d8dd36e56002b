package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/team"
	"github.com/matchbook-app/matchbook/internal/infrastructure/repository/memory"
	"github.com/matchbook-app/matchbook/internal/platform/matchlock"
)

func seedConfirmedBookings(matchID string, n int) []booking.Booking {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	out := make([]booking.Booking, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, booking.Booking{
			ID:           fmt.Sprintf("bk-%02d", i),
			MatchID:      matchID,
			UserID:       fmt.Sprintf("user-%02d", i),
			PositionCode: "flank",
			Status:       booking.StatusConfirmed,
			CreatedAt:    now,
		})
	}
	return out
}

func newTeamService(bookings []booking.Booking) (*TeamService, *memory.TeamRepository) {
	teamRepo := memory.NewTeamRepository()
	service := NewTeamService(
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewClubRepository(memory.SeedClubs()),
		memory.NewBookingRepository(bookings),
		teamRepo,
		matchlock.NewMap(),
		&seqIDGenerator{prefix: "tm"},
	)
	return service, teamRepo
}

func TestTeamService_GenerateTeams_BalancedSplit(t *testing.T) {
	service, _ := newTeamService(seedConfirmedBookings("match-senayan-friday", 8))

	rosters, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-host-senayan",
	})
	if err != nil {
		t.Fatalf("generate teams failed: %v", err)
	}

	if len(rosters) != 2 {
		t.Fatalf("expected default 2 teams, got %d", len(rosters))
	}
	if rosters[0].Team.Name != "Team A" || rosters[1].Team.Name != "Team B" {
		t.Fatalf("unexpected team names: %s / %s", rosters[0].Team.Name, rosters[1].Team.Name)
	}
	if len(rosters[0].Members) != 4 || len(rosters[1].Members) != 4 {
		t.Fatalf("expected 4/4 split, got %d/%d", len(rosters[0].Members), len(rosters[1].Members))
	}

	seen := make(map[string]struct{})
	for _, roster := range rosters {
		for _, m := range roster.Members {
			if _, dup := seen[m.UserID]; dup {
				t.Fatalf("user %s placed twice", m.UserID)
			}
			seen[m.UserID] = struct{}{}
		}
	}
	if len(seen) != 8 {
		t.Fatalf("expected every booking placed, got %d members", len(seen))
	}
}

func TestTeamService_GenerateTeams_UnevenSplit(t *testing.T) {
	service, _ := newTeamService(seedConfirmedBookings("match-senayan-friday", 7))

	rosters, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID:   "match-senayan-friday",
		UserID:    "user-host-senayan",
		TeamCount: 3,
	})
	if err != nil {
		t.Fatalf("generate teams failed: %v", err)
	}

	sizes := []int{len(rosters[0].Members), len(rosters[1].Members), len(rosters[2].Members)}
	if sizes[0] != 3 || sizes[1] != 2 || sizes[2] != 2 {
		t.Fatalf("expected 3/2/2 round-robin split, got %v", sizes)
	}
}

func TestTeamService_GenerateTeams_Rejections(t *testing.T) {
	service, _ := newTeamService(seedConfirmedBookings("match-senayan-friday", 3))

	if _, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-stranger",
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-host, got %v", err)
	}

	if _, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID:   "match-senayan-friday",
		UserID:    "user-host-senayan",
		TeamCount: 4,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for more teams than bookings, got %v", err)
	}

	if _, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID:   "match-senayan-friday",
		UserID:    "user-host-senayan",
		TeamCount: 9,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput above max team count, got %v", err)
	}

	empty, _ := newTeamService(nil)
	if _, err := empty.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-host-senayan",
	}); !errors.Is(err, ErrNoConfirmedBookings) {
		t.Fatalf("expected ErrNoConfirmedBookings, got %v", err)
	}
}

func TestTeamService_GenerateTeams_ReplacesPriorRosters(t *testing.T) {
	service, teamRepo := newTeamService(seedConfirmedBookings("match-senayan-friday", 6))

	first, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-host-senayan",
	})
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	if _, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID:   "match-senayan-friday",
		UserID:    "user-host-senayan",
		TeamCount: 3,
	}); err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	if _, exists, err := teamRepo.GetTeamByID(t.Context(), first[0].Team.ID); err != nil || exists {
		t.Fatalf("expected first-generation team discarded, exists=%v err=%v", exists, err)
	}

	rosters, err := service.ListTeams(t.Context(), "match-senayan-friday")
	if err != nil {
		t.Fatalf("list teams failed: %v", err)
	}
	if len(rosters) != 3 {
		t.Fatalf("expected 3 teams after regeneration, got %d", len(rosters))
	}
}

func TestTeamService_MoveMember(t *testing.T) {
	service, teamRepo := newTeamService(seedConfirmedBookings("match-senayan-friday", 4))

	rosters, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-host-senayan",
	})
	if err != nil {
		t.Fatalf("generate teams failed: %v", err)
	}

	moved := rosters[0].Members[0]
	target := rosters[1].Team

	if err := service.MoveMember(t.Context(), moved.ID, target.ID, "user-stranger"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-host, got %v", err)
	}

	if err := service.MoveMember(t.Context(), moved.ID, target.ID, "user-host-senayan"); err != nil {
		t.Fatalf("move member failed: %v", err)
	}

	member, exists, err := teamRepo.GetMemberByID(t.Context(), moved.ID)
	if err != nil || !exists {
		t.Fatalf("get moved member: exists=%v err=%v", exists, err)
	}
	if member.TeamID != target.ID {
		t.Fatalf("expected member on team %s, got %s", target.ID, member.TeamID)
	}
}

func TestTeamService_MoveMember_CrossMatch(t *testing.T) {
	bookings := make([]booking.Booking, 0, 6)
	bookings = append(bookings, seedConfirmedBookings("match-senayan-friday", 4)...)
	for i := 0; i < 2; i++ {
		bookings = append(bookings, booking.Booking{
			ID:           fmt.Sprintf("bk-away-%d", i),
			MatchID:      "match-kemang-sunday",
			UserID:       fmt.Sprintf("user-away-%d", i),
			PositionCode: "player",
			Status:       booking.StatusConfirmed,
		})
	}
	service, _ := newTeamService(bookings)

	home, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-host-senayan",
	})
	if err != nil {
		t.Fatalf("generate home teams failed: %v", err)
	}
	away, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-kemang-sunday",
		UserID:  "user-host-kemang",
	})
	if err != nil {
		t.Fatalf("generate away teams failed: %v", err)
	}

	// Moving into a team of another match must fail even for the host.
	err = service.MoveMember(t.Context(), home[0].Members[0].ID, away[0].Team.ID, "user-host-senayan")
	if !errors.Is(err, ErrCrossMatchMove) {
		t.Fatalf("expected ErrCrossMatchMove, got %v", err)
	}
}

// staleTeamRepository simulates storage detecting that the confirmed booking
// set changed between the service's read and the roster write.
type staleTeamRepository struct {
	*memory.TeamRepository
}

func (r *staleTeamRepository) ReplaceForMatch(context.Context, string, []team.Roster) error {
	return team.ErrBookingsChanged
}

func TestTeamService_GenerateTeams_StaleBookingSet(t *testing.T) {
	service := NewTeamService(
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewClubRepository(memory.SeedClubs()),
		memory.NewBookingRepository(seedConfirmedBookings("match-senayan-friday", 4)),
		&staleTeamRepository{memory.NewTeamRepository()},
		matchlock.NewMap(),
		&seqIDGenerator{prefix: "tm"},
	)

	_, err := service.GenerateTeams(t.Context(), GenerateTeamsInput{
		MatchID: "match-senayan-friday",
		UserID:  "user-host-senayan",
	})
	if !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrStateConflict, got %v", err)
	}
}
