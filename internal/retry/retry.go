// Package retry wraps a single vendor call with bounded retry on the two
// transient error classes (rate-limit-exceeded, request-timeout). Any other
// failure, or exhaustion of attempts, surfaces the underlying vendor error
// immediately.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/quantlayer/ivol-data/internal/ivol"
)

// Policy controls the attempt budget.
type Policy struct {
	MaxAttempts int           // Total attempts, including the first
	Delay       time.Duration // Fixed delay before each retry
	Logger      *slog.Logger
}

// DefaultPolicy returns the vendor-documented policy: 5 attempts, 5s apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Delay:       5 * time.Second,
	}
}

// Do invokes fn up to p.MaxAttempts times. Only transient vendor errors
// trigger a retry; each retry is preceded by the fixed delay (interruptible
// by ctx). The returned error is unwrapped to the first vendor APIError
// when one is present in the chain.
func (p Policy) Do(ctx context.Context, name string, fn func() error) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			logger.Debug("retrying vendor call",
				"op", name,
				"attempt", attempt,
				"delay", p.Delay,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !ivol.IsTransient(err) {
			return ivol.Unwrapped(err)
		}
	}

	logger.Warn("vendor call exhausted retries",
		"op", name,
		"attempts", attempts,
		"error", lastErr,
	)
	return ivol.Unwrapped(lastErr)
}
