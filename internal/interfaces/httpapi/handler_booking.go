package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

type reserveBookingRequest struct {
	PositionCode string `json:"position_code" validate:"required,max=50"`
}

type setPaidRequest struct {
	IsPaid bool `json:"is_paid"`
}

func (h *Handler) ReserveBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReserveBooking")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req reserveBookingRequest
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

	reserved, err := h.bookingService.Reserve(ctx, usecase.ReserveInput{
		MatchID:      r.PathValue("matchID"),
		UserID:       principal.UserID,
		PositionCode: req.PositionCode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reserve booking failed",
			"match_id", r.PathValue("matchID"),
			"user_id", principal.UserID,
			"position", req.PositionCode,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, bookingToDTO(reserved))
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelBooking")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	bookingID := r.PathValue("bookingID")
	if err := h.bookingService.Cancel(ctx, bookingID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "cancel booking failed", "booking_id", bookingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) SetBookingPaid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetBookingPaid")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setPaidRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	bookingID := r.PathValue("bookingID")
	if err := h.bookingService.SetPaid(ctx, bookingID, principal.UserID, req.IsPaid); err != nil {
		h.logger.WarnContext(ctx, "set booking paid failed", "booking_id", bookingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"is_paid": req.IsPaid})
}

func (h *Handler) GetMatchAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchAvailability")
	defer span.End()

	availability, err := h.bookingService.Availability(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"match_id":  availability.MatchID,
		"positions": positionCountsToDTO(availability.Positions),
	})
}
