package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig tunes a breaker; zero fields fall back to defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = 2
	}
	return c
}

// CircuitBreaker protects an external dependency: after a run of consecutive
// failures it rejects calls for OpenTimeout, then lets a bounded number of
// probes through before closing again.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	probeWins int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		state: CircuitClosed,
	}
}

// Allow reports whether a call may proceed right now.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = CircuitHalfOpen
		b.probes = 0
		b.probeWins = 0
	}

	if b.state == CircuitHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		b.failures = 0
	case CircuitHalfOpen:
		b.probeWins++
		if b.probeWins >= b.cfg.HalfOpenMaxReq {
			b.state = CircuitClosed
			b.failures = 0
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case CircuitHalfOpen:
		b.trip()
	case CircuitOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitOpen
	b.openedAt = b.now()
	b.probes = 0
	b.probeWins = 0
}
