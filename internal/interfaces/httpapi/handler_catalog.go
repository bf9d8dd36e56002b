package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/domain/sport"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type upsertSportRequest struct {
	Name      string                `json:"name" validate:"required,max=100"`
	Positions []upsertSportPosition `json:"positions" validate:"required,min=1,dive"`
}

type upsertSportPosition struct {
	Code         string `json:"code" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=100"`
	DefaultQuota int    `json:"default_quota" validate:"gte=0"`
}

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	sports, err := h.catalogService.ListSports(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list sports failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]sportDTO, 0, len(sports))
	for _, s := range sports {
		items = append(items, sportToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSport")
	defer span.End()

	item, err := h.catalogService.GetSport(ctx, r.PathValue("sportCode"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sportToDTO(item))
}

func (h *Handler) UpsertSport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertSport")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req upsertSportRequest
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

	positions := make([]sport.Position, 0, len(req.Positions))
	for _, p := range req.Positions {
		positions = append(positions, sport.Position{
			Code:         p.Code,
			Name:         p.Name,
			DefaultQuota: p.DefaultQuota,
		})
	}

	saved, err := h.catalogService.UpsertSport(ctx, principal, sport.Sport{
		Code:      r.PathValue("sportCode"),
		Name:      req.Name,
		Positions: positions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert sport failed", "sport_code", r.PathValue("sportCode"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sportToDTO(saved))
}
