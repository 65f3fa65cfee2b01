package insight

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
)

// CircuitBreaker stops summarizer calls after repeated failures. Once the
// cooldown passes a single trial call is let through; success closes the
// breaker, failure reopens it.
type CircuitBreaker struct {
	mu                  sync.Mutex
	clock               clock.Clock
	maxFailures         int
	cooldown            time.Duration
	consecutiveFailures int
	isOpen              bool
	trial               bool
	openedAt            time.Time
}

// NewCircuitBreaker creates new circuit breaker
func NewCircuitBreaker(maxFailures int, cooldown time.Duration, clk clock.Clock) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &CircuitBreaker{
		clock:       clk,
		maxFailures: maxFailures,
		cooldown:    cooldown,
	}
}

// Allow reports whether a call may go through
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.isOpen {
		return true
	}
	if cb.trial || cb.clock.Now().Sub(cb.openedAt) < cb.cooldown {
		return false
	}

	cb.trial = true
	logger.Info("circuit breaker: trial call after cooldown")
	return true
}

// IsOpen returns true while calls are being rejected
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.isOpen
}

// RecordSuccess closes the breaker and resets the failure count
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.isOpen {
		logger.Info("circuit breaker closed")
	}
	cb.isOpen = false
	cb.trial = false
	cb.consecutiveFailures = 0
}

// RecordFailure counts a failure and opens the breaker at the threshold or
// when a trial call fails
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFailures++

	if cb.trial {
		cb.trial = false
		cb.open(fmt.Sprintf("trial call failed: %v", err))
		return
	}

	if !cb.isOpen && cb.consecutiveFailures >= cb.maxFailures {
		cb.open(fmt.Sprintf("max consecutive failures reached (%d)", cb.consecutiveFailures))
	}
}

func (cb *CircuitBreaker) open(reason string) {
	cb.isOpen = true
	cb.openedAt = cb.clock.Now()

	logger.Warn("circuit breaker opened",
		zap.String("reason", reason),
		zap.Time("opened_at", cb.openedAt),
		zap.Duration("cooldown", cb.cooldown),
	)
}
