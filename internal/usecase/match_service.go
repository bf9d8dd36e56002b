package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
	idgen "github.com/matchbook-app/matchbook/internal/platform/id"
)

type CreateMatchInput struct {
	UserID         string
	ClubID         string
	SportCode      string
	Title          string
	Description    string
	Date           time.Time
	Location       string
	BasePrice      int64
	MaxPlayers     int
	PositionQuotas map[string]int
	PositionPrices map[string]int64
}

// UpdateMatchInput carries draft-stage edits. Nil fields are left untouched.
type UpdateMatchInput struct {
	UserID         string
	MatchID        string
	Title          *string
	Description    *string
	Date           *time.Time
	Location       *string
	BasePrice      *int64
	MaxPlayers     *int
	PositionQuotas map[string]int
	PositionPrices map[string]int64
}

type RescheduleMatchInput struct {
	UserID   string
	MatchID  string
	Date     time.Time
	Location string
	Reason   string
}

// MatchService owns the capacity and lifecycle configuration of matches.
type MatchService struct {
	sportRepo   sport.Repository
	clubRepo    club.Repository
	matchRepo   match.Repository
	bookingRepo booking.Repository
	events      EventPublisher
	idGen       idgen.Generator
	now         func() time.Time
}

func NewMatchService(
	sportRepo sport.Repository,
	clubRepo club.Repository,
	matchRepo match.Repository,
	bookingRepo booking.Repository,
	idGen idgen.Generator,
) *MatchService {
	return &MatchService{
		sportRepo:   sportRepo,
		clubRepo:    clubRepo,
		matchRepo:   matchRepo,
		bookingRepo: bookingRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

func (s *MatchService) SetEventPublisher(events EventPublisher) {
	s.events = events
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.ClubID = strings.TrimSpace(input.ClubID)
	input.SportCode = strings.TrimSpace(input.SportCode)
	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)

	if input.UserID == "" {
		return match.Match{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.ClubID == "" {
		return match.Match{}, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return match.Match{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return match.Match{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if input.BasePrice < 0 {
		return match.Match{}, fmt.Errorf("%w: base price cannot be negative", ErrInvalidInput)
	}

	owner, exists, err := s.clubRepo.GetByID(ctx, input.ClubID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get club by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: club=%s", ErrNotFound, input.ClubID)
	}
	if owner.OwnerUserID != input.UserID {
		return match.Match{}, fmt.Errorf("%w: only the club owner may create matches", ErrForbidden)
	}

	sp, err := s.getSport(ctx, input.SportCode)
	if err != nil {
		return match.Match{}, err
	}

	if err := match.ValidateQuotas(input.MaxPlayers, input.PositionQuotas, sp); err != nil {
		return match.Match{}, fmt.Errorf("validate quotas: %w", err)
	}
	if err := match.ValidatePrices(input.PositionPrices, input.PositionQuotas); err != nil {
		return match.Match{}, fmt.Errorf("validate prices: %w", err)
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	item := match.Match{
		ID:             matchID,
		ClubID:         input.ClubID,
		SportCode:      sp.Code,
		Title:          input.Title,
		Description:    input.Description,
		Status:         match.StatusDraft,
		Date:           input.Date,
		Location:       input.Location,
		BasePrice:      input.BasePrice,
		MaxPlayers:     input.MaxPlayers,
		PositionQuotas: copyQuotas(input.PositionQuotas),
		PositionPrices: copyPrices(input.PositionPrices),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	return item, nil
}

// Update applies draft-stage edits. Published matches only change through
// Reschedule; the restriction is enforced here because clients cannot be
// trusted to honor their own disabled inputs.
func (s *MatchService) Update(ctx context.Context, input UpdateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	item, err := s.getOwnedMatch(ctx, input.MatchID, input.UserID)
	if err != nil {
		return match.Match{}, err
	}

	switch item.Status {
	case match.StatusCancelled:
		return match.Match{}, fmt.Errorf("update match: %w", match.ErrAlreadyCancelled)
	case match.StatusPublished:
		return match.Match{}, fmt.Errorf("%w: published matches only accept reschedules", ErrStateConflict)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return match.Match{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		item.Title = title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return match.Match{}, fmt.Errorf("%w: date cannot be empty", ErrInvalidInput)
		}
		item.Date = *input.Date
	}
	if input.Location != nil {
		item.Location = strings.TrimSpace(*input.Location)
	}
	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			return match.Match{}, fmt.Errorf("%w: base price cannot be negative", ErrInvalidInput)
		}
		item.BasePrice = *input.BasePrice
	}
	if input.MaxPlayers != nil {
		item.MaxPlayers = *input.MaxPlayers
	}
	if input.PositionQuotas != nil {
		item.PositionQuotas = copyQuotas(input.PositionQuotas)
	}
	if input.PositionPrices != nil {
		item.PositionPrices = copyPrices(input.PositionPrices)
	}

	sp, err := s.getSport(ctx, item.SportCode)
	if err != nil {
		return match.Match{}, err
	}
	if err := match.ValidateQuotas(item.MaxPlayers, item.PositionQuotas, sp); err != nil {
		return match.Match{}, fmt.Errorf("validate quotas: %w", err)
	}
	if err := match.ValidatePrices(item.PositionPrices, item.PositionQuotas); err != nil {
		return match.Match{}, fmt.Errorf("validate prices: %w", err)
	}
	if err := s.guardQuotaShrink(ctx, item); err != nil {
		return match.Match{}, err
	}

	item.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	return item, nil
}

func (s *MatchService) Publish(ctx context.Context, matchID, userID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Publish")
	defer span.End()

	item, err := s.getOwnedMatch(ctx, matchID, userID)
	if err != nil {
		return match.Match{}, err
	}

	if err := match.Transition(item.Status, match.StatusPublished, ""); err != nil {
		return match.Match{}, fmt.Errorf("publish match: %w", err)
	}

	sp, err := s.getSport(ctx, item.SportCode)
	if err != nil {
		return match.Match{}, err
	}

	if len(item.PositionQuotas) == 0 {
		// Fallback mode: a single-position sport publishes with the whole
		// capacity on its only position.
		pos, single := sp.SinglePosition()
		if !single {
			return match.Match{}, fmt.Errorf("publish match: %w", match.ErrQuotaRequired)
		}
		item.PositionQuotas = map[string]int{pos.Code: item.MaxPlayers}
	}

	if err := match.ValidateQuotas(item.MaxPlayers, item.PositionQuotas, sp); err != nil {
		return match.Match{}, fmt.Errorf("validate quotas: %w", err)
	}

	item.Status = match.StatusPublished
	item.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	s.publish(ctx, Event{Type: EventMatchPublished, MatchID: item.ID, UserID: userID, OccurredAt: s.now().UTC()})

	return item, nil
}

func (s *MatchService) Cancel(ctx context.Context, matchID, userID, reason string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Cancel")
	defer span.End()

	reason = strings.TrimSpace(reason)

	item, err := s.getOwnedMatch(ctx, matchID, userID)
	if err != nil {
		return match.Match{}, err
	}

	if err := match.Transition(item.Status, match.StatusCancelled, reason); err != nil {
		return match.Match{}, fmt.Errorf("cancel match: %w", err)
	}

	item.Status = match.StatusCancelled
	item.CancelReason = reason
	item.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	s.publish(ctx, Event{Type: EventMatchCancelled, MatchID: item.ID, UserID: userID, Reason: reason, OccurredAt: s.now().UTC()})

	return item, nil
}

func (s *MatchService) Reschedule(ctx context.Context, input RescheduleMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Reschedule")
	defer span.End()

	input.Reason = strings.TrimSpace(input.Reason)
	input.Location = strings.TrimSpace(input.Location)

	item, err := s.getOwnedMatch(ctx, input.MatchID, input.UserID)
	if err != nil {
		return match.Match{}, err
	}

	if item.Status == match.StatusDraft {
		return match.Match{}, fmt.Errorf("%w: draft matches are edited, not rescheduled", ErrStateConflict)
	}
	if err := match.Transition(item.Status, match.StatusPublished, input.Reason); err != nil {
		return match.Match{}, fmt.Errorf("reschedule match: %w", err)
	}

	if !input.Date.IsZero() {
		item.Date = input.Date
	}
	if input.Location != "" {
		item.Location = input.Location
	}
	item.RescheduleReason = input.Reason
	item.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	s.publish(ctx, Event{Type: EventMatchRescheduled, MatchID: item.ID, UserID: input.UserID, Reason: input.Reason, OccurredAt: s.now().UTC()})

	return item, nil
}

func (s *MatchService) GetByID(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return item, nil
}

func (s *MatchService) ListPublished(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListPublished")
	defer span.End()

	items, err := s.matchRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published matches: %w", err)
	}

	return items, nil
}

func (s *MatchService) ListByClub(ctx context.Context, clubID, userID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByClub")
	defer span.End()

	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: club id is required", ErrInvalidInput)
	}

	owner, exists, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: club=%s", ErrNotFound, clubID)
	}
	if owner.OwnerUserID != strings.TrimSpace(userID) {
		return nil, fmt.Errorf("%w: only the club owner may list club matches", ErrForbidden)
	}

	items, err := s.matchRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list matches by club: %w", err)
	}

	return items, nil
}

// guardQuotaShrink forbids lowering a position quota below its live confirmed
// count, so capacity edits can never strand existing bookings.
func (s *MatchService) guardQuotaShrink(ctx context.Context, item match.Match) error {
	if len(item.PositionQuotas) == 0 {
		return nil
	}

	counts, err := s.bookingRepo.CountConfirmedByPosition(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("count confirmed bookings: %w", err)
	}

	for code, confirmed := range counts {
		if confirmed == 0 {
			continue
		}
		quota, open := item.PositionQuotas[code]
		if !open {
			return fmt.Errorf("%w: position %s has %d confirmed bookings and cannot be removed", ErrStateConflict, code, confirmed)
		}
		if quota < confirmed {
			return fmt.Errorf("%w: quota for %s cannot drop below %d confirmed bookings", ErrStateConflict, code, confirmed)
		}
	}

	return nil
}

func (s *MatchService) getOwnedMatch(ctx context.Context, matchID, userID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	userID = strings.TrimSpace(userID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if userID == "" {
		return match.Match{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	if err := requireHost(ctx, s.clubRepo, item, userID); err != nil {
		return match.Match{}, err
	}

	return item, nil
}

func (s *MatchService) getSport(ctx context.Context, code string) (sport.Sport, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return sport.Sport{}, fmt.Errorf("%w: sport code is required", ErrInvalidInput)
	}

	sp, exists, err := s.sportRepo.GetByCode(ctx, code)
	if err != nil {
		return sport.Sport{}, fmt.Errorf("get sport by code: %w", err)
	}
	if !exists {
		return sport.Sport{}, fmt.Errorf("%w: sport=%s", ErrNotFound, code)
	}

	return sp, nil
}

func (s *MatchService) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event)
}

func copyQuotas(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyPrices(in map[string]int64) map[string]int64 {
	if in == nil {
		return nil
	}
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
