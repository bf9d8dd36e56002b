package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/club"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
	idgen "github.com/matchbook-app/matchbook/internal/platform/id"
	"github.com/matchbook-app/matchbook/internal/platform/matchlock"
)

const availabilityFanout = 8

type ReserveInput struct {
	MatchID      string
	UserID       string
	PositionCode string
}

// MatchAvailability is the "N/quota" projection for one match.
type MatchAvailability struct {
	MatchID   string
	Positions []booking.PositionCount
}

// BookingService is the booking ledger: the only path by which a user
// occupies a position slot.
type BookingService struct {
	sportRepo   sport.Repository
	matchRepo   match.Repository
	clubRepo    club.Repository
	bookingRepo booking.Repository
	locks       *matchlock.Map
	events      EventPublisher
	idGen       idgen.Generator
	now         func() time.Time
}

func NewBookingService(
	sportRepo sport.Repository,
	matchRepo match.Repository,
	clubRepo club.Repository,
	bookingRepo booking.Repository,
	locks *matchlock.Map,
	idGen idgen.Generator,
) *BookingService {
	return &BookingService{
		sportRepo:   sportRepo,
		matchRepo:   matchRepo,
		clubRepo:    clubRepo,
		bookingRepo: bookingRepo,
		locks:       locks,
		idGen:       idGen,
		now:         time.Now,
	}
}

func (s *BookingService) SetEventPublisher(events EventPublisher) {
	s.events = events
}

// Reserve occupies one slot on a published match. The capacity check and the
// insert are one atomic unit inside the repository; this method only
// establishes the preconditions and translates ledger errors.
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (booking.Booking, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BookingService.Reserve")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.UserID = strings.TrimSpace(input.UserID)
	input.PositionCode = strings.TrimSpace(input.PositionCode)

	if input.MatchID == "" {
		return booking.Booking{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.UserID == "" {
		return booking.Booking{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.PositionCode == "" {
		return booking.Booking{}, fmt.Errorf("%w: position code is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return booking.Booking{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if item.Status != match.StatusPublished {
		return booking.Booking{}, fmt.Errorf("%w: status=%s", ErrMatchNotBookable, item.Status)
	}
	if !item.OpenPosition(input.PositionCode) {
		return booking.Booking{}, fmt.Errorf("%w: position=%s", ErrInvalidPosition, input.PositionCode)
	}

	bookingID, err := s.idGen.NewID()
	if err != nil {
		return booking.Booking{}, fmt.Errorf("generate booking id: %w", err)
	}

	now := s.now().UTC()
	candidate := booking.Booking{
		ID:           bookingID,
		MatchID:      item.ID,
		UserID:       input.UserID,
		PositionCode: input.PositionCode,
		Status:       booking.StatusConfirmed,
		Price:        item.PriceFor(input.PositionCode),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	unlock := s.locks.Lock(item.ID)
	reserved, err := s.bookingRepo.Reserve(ctx, candidate, item.PositionQuotas[input.PositionCode])
	unlock()
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrDuplicateUser):
			return booking.Booking{}, fmt.Errorf("%w: match=%s", ErrAlreadyBooked, item.ID)
		case errors.Is(err, booking.ErrCapacityExceeded):
			return booking.Booking{}, fmt.Errorf("%w: position=%s", ErrPositionFull, input.PositionCode)
		case errors.Is(err, booking.ErrMatchNotOpen):
			return booking.Booking{}, fmt.Errorf("%w: match=%s", ErrMatchNotBookable, item.ID)
		default:
			return booking.Booking{}, fmt.Errorf("reserve booking: %w", err)
		}
	}

	s.publish(ctx, Event{
		Type:         EventBookingConfirmed,
		MatchID:      item.ID,
		BookingID:    reserved.ID,
		UserID:       reserved.UserID,
		PositionCode: reserved.PositionCode,
		OccurredAt:   now,
	})

	return reserved, nil
}

// Cancel frees the booking's slot immediately; the next Reserve on the same
// position sees the capacity. Only the booker or the match host may cancel.
func (s *BookingService) Cancel(ctx context.Context, bookingID, byUserID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BookingService.Cancel")
	defer span.End()

	item, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if item.Status == booking.StatusCancelled {
		return fmt.Errorf("%w: booking=%s", ErrBookingCancelled, item.ID)
	}

	byUserID = strings.TrimSpace(byUserID)
	if byUserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if byUserID != item.UserID {
		parent, exists, err := s.matchRepo.GetByID(ctx, item.MatchID)
		if err != nil {
			return fmt.Errorf("get match by id: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, item.MatchID)
		}
		if err := requireHost(ctx, s.clubRepo, parent, byUserID); err != nil {
			return err
		}
	}

	unlock := s.locks.Lock(item.MatchID)
	// Re-read under the lock: a racing cancel may have flipped the status
	// after the authorization read, and only one caller gets the cancel.
	item, err = s.getBooking(ctx, bookingID)
	if err != nil {
		unlock()
		return err
	}
	if item.Status == booking.StatusCancelled {
		unlock()
		return fmt.Errorf("%w: booking=%s", ErrBookingCancelled, item.ID)
	}

	item.Status = booking.StatusCancelled
	item.UpdatedAt = s.now().UTC()
	err = s.bookingRepo.Update(ctx, item)
	unlock()
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	s.publish(ctx, Event{
		Type:         EventBookingCancelled,
		MatchID:      item.MatchID,
		BookingID:    item.ID,
		UserID:       item.UserID,
		PositionCode: item.PositionCode,
		OccurredAt:   item.UpdatedAt,
	})

	return nil
}

// SetPaid toggles the informational paid flag. Host-only; never touches
// capacity.
func (s *BookingService) SetPaid(ctx context.Context, bookingID, byUserID string, isPaid bool) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BookingService.SetPaid")
	defer span.End()

	item, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	parent, exists, err := s.matchRepo.GetByID(ctx, item.MatchID)
	if err != nil {
		return fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, item.MatchID)
	}
	if err := requireHost(ctx, s.clubRepo, parent, strings.TrimSpace(byUserID)); err != nil {
		return err
	}

	item.IsPaid = isPaid
	item.UpdatedAt = s.now().UTC()
	if err := s.bookingRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("set booking paid flag: %w", err)
	}

	return nil
}

// Availability reports the live confirmed count against every open position
// of a match, in the sport's position order.
func (s *BookingService) Availability(ctx context.Context, matchID string) (MatchAvailability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BookingService.Availability")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchAvailability{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchAvailability{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return MatchAvailability{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	counts, err := s.bookingRepo.CountConfirmedByPosition(ctx, item.ID)
	if err != nil {
		return MatchAvailability{}, fmt.Errorf("count confirmed bookings: %w", err)
	}

	positions := make([]booking.PositionCount, 0, len(item.PositionQuotas))
	for code, quota := range item.PositionQuotas {
		positions = append(positions, booking.PositionCount{
			PositionCode: code,
			Quota:        quota,
			Confirmed:    counts[code],
		})
	}
	s.sortPositions(ctx, item.SportCode, positions)

	return MatchAvailability{MatchID: item.ID, Positions: positions}, nil
}

// AvailabilityForMatches fans the per-match projection out across a bounded
// worker pool; match lists on the browse screen ask for dozens at once.
func (s *BookingService) AvailabilityForMatches(ctx context.Context, matchIDs []string) ([]MatchAvailability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BookingService.AvailabilityForMatches")
	defer span.End()

	if len(matchIDs) == 0 {
		return nil, nil
	}

	results := make([]MatchAvailability, len(matchIDs))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(availabilityFanout)
	for i, matchID := range matchIDs {
		p.Go(func(ctx context.Context) error {
			availability, err := s.Availability(ctx, matchID)
			if err != nil {
				return err
			}
			results[i] = availability
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *BookingService) getBooking(ctx context.Context, bookingID string) (booking.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return booking.Booking{}, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	item, exists, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("get booking by id: %w", err)
	}
	if !exists {
		return booking.Booking{}, fmt.Errorf("%w: booking=%s", ErrNotFound, bookingID)
	}

	return item, nil
}

func (s *BookingService) sortPositions(ctx context.Context, sportCode string, positions []booking.PositionCount) {
	sp, exists, err := s.sportRepo.GetByCode(ctx, sportCode)
	if err != nil || !exists {
		sort.Slice(positions, func(i, j int) bool {
			return positions[i].PositionCode < positions[j].PositionCode
		})
		return
	}

	order := make(map[string]int, len(sp.Positions))
	for i, p := range sp.Positions {
		order[p.Code] = i
	}
	sort.Slice(positions, func(i, j int) bool {
		return order[positions[i].PositionCode] < order[positions[j].PositionCode]
	})
}

func (s *BookingService) publish(ctx context.Context, event Event) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event)
}
