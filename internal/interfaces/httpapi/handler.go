package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matchbook-app/matchbook/internal/domain/booking"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
	"github.com/matchbook-app/matchbook/internal/domain/team"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type Handler struct {
	catalogService *usecase.CatalogService
	matchService   *usecase.MatchService
	bookingService *usecase.BookingService
	teamService    *usecase.TeamService
	logger         *slog.Logger
	validator      *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	matchService *usecase.MatchService,
	bookingService *usecase.BookingService,
	teamService *usecase.TeamService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		catalogService: catalogService,
		matchService:   matchService,
		bookingService: bookingService,
		teamService:    teamService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type sportDTO struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Positions []positionDTO `json:"positions"`
}

type positionDTO struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DefaultQuota int    `json:"default_quota"`
}

func sportToDTO(item sport.Sport) sportDTO {
	positions := make([]positionDTO, 0, len(item.Positions))
	for _, p := range item.Positions {
		positions = append(positions, positionDTO{
			Code:         p.Code,
			Name:         p.Name,
			DefaultQuota: p.DefaultQuota,
		})
	}
	return sportDTO{Code: item.Code, Name: item.Name, Positions: positions}
}

type matchDTO struct {
	ID               string             `json:"id"`
	ClubID           string             `json:"club_id"`
	SportCode        string             `json:"sport_code"`
	Title            string             `json:"title"`
	Description      string             `json:"description,omitempty"`
	Status           string             `json:"status"`
	Date             time.Time          `json:"date"`
	Location         string             `json:"location,omitempty"`
	BasePrice        int64              `json:"base_price"`
	MaxPlayers       int                `json:"max_players"`
	PositionQuotas   map[string]int     `json:"position_quotas,omitempty"`
	PositionPrices   map[string]int64   `json:"position_prices,omitempty"`
	RescheduleReason string             `json:"reschedule_reason,omitempty"`
	CancelReason     string             `json:"cancel_reason,omitempty"`
	Availability     []positionCountDTO `json:"availability,omitempty"`
}

type positionCountDTO struct {
	PositionCode string `json:"position_code"`
	Quota        int    `json:"quota"`
	Confirmed    int    `json:"confirmed"`
}

func matchToDTO(item match.Match) matchDTO {
	return matchDTO{
		ID:               item.ID,
		ClubID:           item.ClubID,
		SportCode:        item.SportCode,
		Title:            item.Title,
		Description:      item.Description,
		Status:           string(item.Status),
		Date:             item.Date,
		Location:         item.Location,
		BasePrice:        item.BasePrice,
		MaxPlayers:       item.MaxPlayers,
		PositionQuotas:   item.PositionQuotas,
		PositionPrices:   item.PositionPrices,
		RescheduleReason: item.RescheduleReason,
		CancelReason:     item.CancelReason,
	}
}

func positionCountsToDTO(counts []booking.PositionCount) []positionCountDTO {
	out := make([]positionCountDTO, 0, len(counts))
	for _, c := range counts {
		out = append(out, positionCountDTO{
			PositionCode: c.PositionCode,
			Quota:        c.Quota,
			Confirmed:    c.Confirmed,
		})
	}
	return out
}

type bookingDTO struct {
	ID           string    `json:"id"`
	MatchID      string    `json:"match_id"`
	UserID       string    `json:"user_id"`
	PositionCode string    `json:"position_code"`
	Status       string    `json:"status"`
	Price        int64     `json:"price"`
	IsPaid       bool      `json:"is_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

func bookingToDTO(item booking.Booking) bookingDTO {
	return bookingDTO{
		ID:           item.ID,
		MatchID:      item.MatchID,
		UserID:       item.UserID,
		PositionCode: item.PositionCode,
		Status:       string(item.Status),
		Price:        item.Price,
		IsPaid:       item.IsPaid,
		CreatedAt:    item.CreatedAt,
	}
}

type teamDTO struct {
	ID      string          `json:"id"`
	MatchID string          `json:"match_id"`
	Name    string          `json:"name"`
	Color   string          `json:"color"`
	Members []teamMemberDTO `json:"members"`
}

type teamMemberDTO struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
}

func rosterToDTO(roster team.Roster) teamDTO {
	members := make([]teamMemberDTO, 0, len(roster.Members))
	for _, m := range roster.Members {
		members = append(members, teamMemberDTO{
			ID:        m.ID,
			BookingID: m.BookingID,
			UserID:    m.UserID,
		})
	}
	return teamDTO{
		ID:      roster.Team.ID,
		MatchID: roster.Team.MatchID,
		Name:    roster.Team.Name,
		Color:   roster.Team.Color,
		Members: members,
	}
}
