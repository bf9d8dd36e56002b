package httpapi

import (
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type generateTeamsRequest struct {
	TeamCount int `json:"team_count" validate:"omitempty,gte=2,lte=8"`
}

type moveMemberRequest struct {
	TargetTeamID string `json:"target_team_id" validate:"required"`
}

func (h *Handler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	// An empty body means the default two-team split.
	var req generateTeamsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && err != io.EOF {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rosters, err := h.teamService.GenerateTeams(ctx, usecase.GenerateTeamsInput{
		MatchID:   r.PathValue("matchID"),
		UserID:    principal.UserID,
		TeamCount: req.TeamCount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate teams failed", "match_id", r.PathValue("matchID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(rosters))
	for _, roster := range rosters {
		items = append(items, rosterToDTO(roster))
	}

	writeSuccess(ctx, w, http.StatusCreated, items)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	rosters, err := h.teamService.ListTeams(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(rosters))
	for _, roster := range rosters {
		items = append(items, rosterToDTO(roster))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) MoveTeamMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MoveTeamMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req moveMemberRequest
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

	memberID := r.PathValue("memberID")
	if err := h.teamService.MoveMember(ctx, memberID, req.TargetTeamID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "move team member failed", "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "moved"})
}
