package gatekeeper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/matchbook-app/matchbook/internal/domain/user"
	"github.com/matchbook-app/matchbook/internal/platform/resilience"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

var errGatekeeperTransient = crerr.New("gatekeeper transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheMaxSize   int
	Logger         *slog.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client verifies bearer tokens against the gatekeeper identity service.
// Verified principals are cached briefly so hot users do not hit the
// introspection endpoint on every request.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *principalCache
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 3 * time.Second
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL < 0 {
		cacheTTL = 0
	}
	cacheMaxSize := cfg.CacheMaxSize
	if cacheMaxSize <= 0 {
		cacheMaxSize = 1024
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          newPrincipalCache(cacheTTL, cacheMaxSize),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "gatekeeper circuit breaker rejected request", "state", c.breaker.State())
			return user.Principal{}, fmt.Errorf("%w: identity service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	c.recordCircuitResult(err)
	if err != nil {
		return user.Principal{}, err
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	payload := introspectRequest{Token: token}
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errGatekeeperTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", errGatekeeperTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "gatekeeper introspection non-200",
			"status_code", resp.StatusCode,
		)
		if isRetryableStatus(resp.StatusCode) {
			return user.Principal{}, fmt.Errorf("%w: introspection failed with status %d", errGatekeeperTransient, resp.StatusCode)
		}
		return user.Principal{}, fmt.Errorf("gatekeeper introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
		Role:   parseRole(decoded.Role),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func parseRole(raw string) user.Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(user.RoleAdmin)) {
		return user.RoleAdmin
	}
	return user.RoleMember
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
