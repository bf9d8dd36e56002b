package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/domain/team"
	idgen "github.com/matchbook-app/matchbook/internal/platform/id"
	"github.com/matchbook-app/matchbook/internal/platform/matchlock"
)

const defaultTeamCount = 2

type GenerateTeamsInput struct {
	MatchID   string
	UserID    string
	TeamCount int
}

// TeamService partitions confirmed bookings into balanced teams and applies
// the host's point fixes afterward.
type TeamService struct {
	matchRepo   match.Repository
	clubRepo    club.Repository
	bookingRepo booking.Repository
	teamRepo    team.Repository
	locks       *matchlock.Map
	events      EventPublisher
	idGen       idgen.Generator
	now         func() time.Time
	shuffle     func(n int, swap func(i, j int))
}

func NewTeamService(
	matchRepo match.Repository,
	clubRepo club.Repository,
	bookingRepo booking.Repository,
	teamRepo team.Repository,
	locks *matchlock.Map,
	idGen idgen.Generator,
) *TeamService {
	return &TeamService{
		matchRepo:   matchRepo,
		clubRepo:    clubRepo,
		bookingRepo: bookingRepo,
		teamRepo:    teamRepo,
		locks:       locks,
		idGen:       idGen,
		now:         time.Now,
		shuffle:     rand.Shuffle,
	}
}

func (s *TeamService) SetEventPublisher(events EventPublisher) {
	s.events = events
}

// GenerateTeams shuffles the confirmed bookings uniformly and deals them
// round-robin, so team sizes differ by at most one. The match's previous
// rosters are discarded wholesale; a second call is expected to produce a
// different split.
func (s *TeamService) GenerateTeams(ctx context.Context, input GenerateTeamsInput) ([]team.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GenerateTeams")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.UserID = strings.TrimSpace(input.UserID)
	if input.TeamCount == 0 {
		input.TeamCount = defaultTeamCount
	}

	if input.MatchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.TeamCount < 2 || input.TeamCount > team.MaxTeams {
		return nil, fmt.Errorf("%w: team count must be between 2 and %d", ErrInvalidInput, team.MaxTeams)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if err := requireHost(ctx, s.clubRepo, item, input.UserID); err != nil {
		return nil, err
	}

	// The lock keeps a racing reserve/cancel from changing the booking set
	// between the read below and the roster write.
	unlock := s.locks.Lock(item.ID)
	defer unlock()

	bookings, err := s.bookingRepo.ListConfirmedByMatch(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list confirmed bookings: %w", err)
	}
	if len(bookings) == 0 {
		return nil, fmt.Errorf("%w: match=%s", ErrNoConfirmedBookings, item.ID)
	}
	if input.TeamCount > len(bookings) {
		return nil, fmt.Errorf("%w: cannot split %d bookings into %d teams", ErrInvalidInput, len(bookings), input.TeamCount)
	}

	shuffled := append([]booking.Booking(nil), bookings...)
	s.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	now := s.now().UTC()
	rosters := make([]team.Roster, 0, input.TeamCount)
	for i := 0; i < input.TeamCount; i++ {
		teamID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate team id: %w", err)
		}
		rosters = append(rosters, team.Roster{
			Team: team.Team{
				ID:        teamID,
				MatchID:   item.ID,
				Name:      team.NameForIndex(i),
				Color:     team.ColorForIndex(i),
				CreatedAt: now,
			},
		})
	}

	for i, b := range shuffled {
		memberID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate member id: %w", err)
		}
		roster := &rosters[i%input.TeamCount]
		roster.Members = append(roster.Members, team.Member{
			ID:        memberID,
			TeamID:    roster.Team.ID,
			BookingID: b.ID,
			UserID:    b.UserID,
		})
	}

	if err := s.teamRepo.ReplaceForMatch(ctx, item.ID, rosters); err != nil {
		if errors.Is(err, team.ErrBookingsChanged) {
			return nil, fmt.Errorf("%w: confirmed bookings changed while generating teams", ErrStateConflict)
		}
		return nil, fmt.Errorf("replace match rosters: %w", err)
	}

	s.publish(ctx, Event{
		Type:       EventTeamsGenerated,
		MatchID:    item.ID,
		UserID:     input.UserID,
		TeamCount:  input.TeamCount,
		OccurredAt: now,
	})

	return rosters, nil
}

// MoveMember reassigns a single membership within the same match. No size cap:
// hosts may intentionally create uneven teams.
func (s *TeamService) MoveMember(ctx context.Context, memberID, targetTeamID, byUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.MoveMember")
	defer span.End()

	memberID = strings.TrimSpace(memberID)
	targetTeamID = strings.TrimSpace(targetTeamID)
	byUserID = strings.TrimSpace(byUserID)
	if memberID == "" || targetTeamID == "" {
		return fmt.Errorf("%w: member id and target team id are required", ErrInvalidInput)
	}

	member, exists, err := s.teamRepo.GetMemberByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("get team member: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}

	current, exists, err := s.teamRepo.GetTeamByID(ctx, member.TeamID)
	if err != nil {
		return fmt.Errorf("get current team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, member.TeamID)
	}

	target, exists, err := s.teamRepo.GetTeamByID(ctx, targetTeamID)
	if err != nil {
		return fmt.Errorf("get target team: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: team=%s", ErrNotFound, targetTeamID)
	}
	if target.MatchID != current.MatchID {
		return fmt.Errorf("%w: member team match=%s target match=%s", ErrCrossMatchMove, current.MatchID, target.MatchID)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, current.MatchID)
	if err != nil {
		return fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, current.MatchID)
	}
	if err := requireHost(ctx, s.clubRepo, item, byUserID); err != nil {
		return err
	}

	if err := s.teamRepo.MoveMember(ctx, memberID, targetTeamID); err != nil {
		return fmt.Errorf("move team member: %w", err)
	}

	return nil
}

func (s *TeamService) ListTeams(ctx context.Context, matchID string) ([]team.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	rosters, err := s.teamRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match rosters: %w", err)
	}

	return rosters, nil
}

func (s *TeamService) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event)
}
