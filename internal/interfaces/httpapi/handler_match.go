package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type createMatchRequest struct {
	ClubID         string           `json:"club_id" validate:"required"`
	SportCode      string           `json:"sport_code" validate:"required"`
	Title          string           `json:"title" validate:"required,max=200"`
	Description    string           `json:"description" validate:"omitempty,max=2000"`
	Date           time.Time        `json:"date" validate:"required"`
	Location       string           `json:"location" validate:"omitempty,max=300"`
	BasePrice      int64            `json:"base_price" validate:"gte=0"`
	MaxPlayers     int              `json:"max_players" validate:"required,gt=0"`
	PositionQuotas map[string]int   `json:"position_quotas"`
	PositionPrices map[string]int64 `json:"position_prices"`
}

type updateMatchRequest struct {
	Title          *string          `json:"title" validate:"omitempty,max=200"`
	Description    *string          `json:"description" validate:"omitempty,max=2000"`
	Date           *time.Time       `json:"date"`
	Location       *string          `json:"location" validate:"omitempty,max=300"`
	BasePrice      *int64           `json:"base_price"`
	MaxPlayers     *int             `json:"max_players"`
	PositionQuotas map[string]int   `json:"position_quotas"`
	PositionPrices map[string]int64 `json:"position_prices"`
}

type cancelMatchRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type rescheduleMatchRequest struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location" validate:"omitempty,max=300"`
	Reason   string    `json:"reason" validate:"required,max=500"`
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, usecase.CreateMatchInput{
		UserID:         principal.UserID,
		ClubID:         req.ClubID,
		SportCode:      req.SportCode,
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Location:       req.Location,
		BasePrice:      req.BasePrice,
		MaxPlayers:     req.MaxPlayers,
		PositionQuotas: req.PositionQuotas,
		PositionPrices: req.PositionPrices,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.Update(ctx, usecase.UpdateMatchInput{
		UserID:         principal.UserID,
		MatchID:        r.PathValue("matchID"),
		Title:          req.Title,
		Description:    req.Description,
		Date:           req.Date,
		Location:       req.Location,
		BasePrice:      req.BasePrice,
		MaxPlayers:     req.MaxPlayers,
		PositionQuotas: req.PositionQuotas,
		PositionPrices: req.PositionPrices,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) PublishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	published, err := h.matchService.Publish(ctx, r.PathValue("matchID"), principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "publish match failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(published))
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req cancelMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	cancelled, err := h.matchService.Cancel(ctx, r.PathValue("matchID"), principal.UserID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel match failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(cancelled))
}

func (h *Handler) RescheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RescheduleMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req rescheduleMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rescheduled, err := h.matchService.Reschedule(ctx, usecase.RescheduleMatchInput{
		UserID:   principal.UserID,
		MatchID:  r.PathValue("matchID"),
		Date:     req.Date,
		Location: req.Location,
		Reason:   req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reschedule match failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(rescheduled))
}

// ListMatches is the public browse surface: published matches with their live
// availability attached.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.ListPublished(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list published matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}
	availability, err := h.bookingService.AvailabilityForMatches(ctx, matchIDs)
	if err != nil {
		h.logger.ErrorContext(ctx, "availability fan-out failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for i, m := range matches {
		dto := matchToDTO(m)
		dto.Availability = positionCountsToDTO(availability[i].Positions)
		items = append(items, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	item, err := h.matchService.GetByID(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ListClubMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubMatches")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	matches, err := h.matchService.ListByClub(ctx, r.PathValue("clubID"), principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list club matches failed", "club_id", r.PathValue("clubID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
