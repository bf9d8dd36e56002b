package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker protects outbound dependencies (identity introspection,
// webhook delivery) from hammering a peer that is already failing.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	state            CircuitState
	failures         int
	openedAt         time.Time
	halfOpenInFlight int
	now              func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		halfOpenMaxReq:   halfOpenMaxReq,
		state:            CircuitStateClosed,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. After the open timeout the
// breaker moves to half-open and admits a bounded number of probes.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.state = CircuitStateHalfOpen
		b.halfOpenInFlight = 0
	}

	if b.state == CircuitStateHalfOpen {
		if b.halfOpenInFlight >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.halfOpenInFlight++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = CircuitStateClosed
	b.failures = 0
	b.halfOpenInFlight = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		b.trip()
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.halfOpenInFlight = 0
}
