package gatekeeper

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matchbook-app/matchbook/internal/domain/user"
	"github.com/matchbook-app/matchbook/internal/platform/resilience"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

func newTestClient(serverURL string, cacheTTL time.Duration) *Client {
	return NewClient(ClientConfig{
		BaseURL:        serverURL,
		IntrospectPath: "/v1/auth/introspect",
		Timeout:        time.Second,
		CacheTTL:       cacheTTL,
		Logger:         slog.New(slog.DiscardHandler),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestVerifyAccessToken_ActiveToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":true,"user_id":"user-host-senayan","email":"host@senayan.id","role":"admin"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	principal, err := client.VerifyAccessToken(t.Context(), "token-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if principal.UserID != "user-host-senayan" {
		t.Fatalf("unexpected user id: %q", principal.UserID)
	}
	if principal.Role != user.RoleAdmin {
		t.Fatalf("expected admin role, got %q", principal.Role)
	}
}

func TestVerifyAccessToken_Rejections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	if _, err := client.VerifyAccessToken(t.Context(), ""); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
	if _, err := client.VerifyAccessToken(t.Context(), "token-bad"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for denied introspection, got %v", err)
	}
}

func TestVerifyAccessToken_InactiveToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":false}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	if _, err := client.VerifyAccessToken(t.Context(), "token-expired"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for inactive token, got %v", err)
	}
}

func TestVerifyAccessToken_CachesPrincipal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":true,"user_id":"user-booker-1","email":"booker@example.com","role":"member"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Minute)

	for i := 0; i < 3; i++ {
		principal, err := client.VerifyAccessToken(t.Context(), "token-cached")
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if principal.UserID != "user-booker-1" {
			t.Fatalf("unexpected user id: %q", principal.UserID)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 introspection call, got %d", got)
	}
}

func TestVerifyAccessToken_CircuitOpenMapsToDependencyUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:        server.URL,
		IntrospectPath: "/v1/auth/introspect",
		Timeout:        time.Second,
		Logger:         slog.New(slog.DiscardHandler),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.VerifyAccessToken(t.Context(), "token-x"); err == nil {
			t.Fatalf("expected error on call %d", i)
		}
	}

	_, err := client.VerifyAccessToken(t.Context(), "token-x")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once circuit is open, got %v", err)
	}
}
