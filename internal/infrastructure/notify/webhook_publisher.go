package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/matchbook-app/matchbook/internal/platform/logging"
	"github.com/matchbook-app/matchbook/internal/platform/resilience"
	"github.com/matchbook-app/matchbook/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

const (
	headerEventType = "X-Matchbook-Event"
	headerSignature = "X-Matchbook-Signature"
)

type WebhookPublisherConfig struct {
	EndpointURL    string
	Secret         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers engine events to a single configured HTTP
// endpoint. Delivery is best effort: callers decide whether a failed send
// is retried or dropped.
type WebhookPublisher struct {
	client         *fasthttp.Client
	endpointURL    string
	secret         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig) *WebhookPublisher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		endpointURL:    strings.TrimSpace(cfg.EndpointURL),
		secret:         strings.TrimSpace(cfg.Secret),
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (p *WebhookPublisher) Send(ctx context.Context, event usecase.Event) error {
	if p.endpointURL == "" {
		return crerr.New("webhook endpoint url is required")
	}
	if strings.TrimSpace(event.Type) == "" {
		return crerr.New("event type is required")
	}

	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected event", "event_type", event.Type, "state", p.breaker.State())
			return fmt.Errorf("%w: webhook endpoint is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal event payload")
	}

	signature := p.sign(body)
	p.logger.DebugContext(ctx, "webhook delivery attempt",
		"event_type", event.Type,
		"match_id", event.MatchID,
		"curl_preview", buildWebhookCurlPreview(p.endpointURL, event.Type, string(body), signature != ""),
	)

	err = p.deliver(ctx, event.Type, body, signature)
	p.recordCircuitResult(err)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "webhook delivered", "event_type", event.Type, "match_id", event.MatchID)
	return nil
}

func (p *WebhookPublisher) deliver(ctx context.Context, eventType string, body []byte, signature string) error {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		status, err := p.post(eventType, body, signature)
		if err != nil {
			lastErr = fmt.Errorf("%w: send webhook event_type=%s: %v", errWebhookTransient, eventType, err)
		} else if status >= 200 && status < 300 {
			return nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: webhook status=%d event_type=%s", errWebhookTransient, status, eventType)
		} else {
			return fmt.Errorf("webhook status=%d event_type=%s", status, eventType)
		}

		if attempt == p.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("webhook request failed")
	}
	return lastErr
}

func (p *WebhookPublisher) post(eventType string, body []byte, signature string) (int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.endpointURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(headerEventType, eventType)
	if signature != "" {
		req.Header.Set(headerSignature, signature)
	}
	req.SetBody(body)

	if err := p.client.DoTimeout(req, resp, p.timeout); err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}

func (p *WebhookPublisher) sign(body []byte) string {
	if p.secret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if stderrors.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func buildWebhookCurlPreview(endpointURL, eventType, body string, signed bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(endpointURL))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-H")
	appendPart(shellQuote(headerEventType + ": " + eventType))
	if signed {
		appendPart("-H")
		appendPart(shellQuote(headerSignature + ": ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(body, 2048)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
