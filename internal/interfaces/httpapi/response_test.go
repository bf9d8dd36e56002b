package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/matchbook-app/matchbook/internal/domain/match"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError_StatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"not found", fmt.Errorf("%w: match=x", usecase.ErrNotFound), http.StatusNotFound, "notFound"},
		{"forbidden", fmt.Errorf("%w: host only", usecase.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"position full", fmt.Errorf("%w: position=gk", usecase.ErrPositionFull), http.StatusConflict, "positionFull"},
		{"already booked", fmt.Errorf("%w: match=x", usecase.ErrAlreadyBooked), http.StatusConflict, "stateConflict"},
		{"cancelled match", fmt.Errorf("cancel match: %w", match.ErrAlreadyCancelled), http.StatusConflict, "illegalTransition"},
		{"quota mismatch", fmt.Errorf("validate quotas: %w", match.ErrQuotaMismatch), http.StatusBadRequest, "invalidMatchConfig"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(context.Background(), tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, mapped.HTTPStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("expected reason %s, got %s", tc.wantReason, mapped.Reason)
			}
		})
	}
}
