package ivol

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateGate bounds the outbound request rate to the vendor. It is a token
// bucket with capacity n replenished evenly across the window, shared by
// all concurrent callers of one client instance.
//
// Two policies are in use depending on endpoint class: 40/minute for the
// general API and 1/second for the heavier screening endpoints. Both are
// expressed through the same gate.
type RateGate struct {
	lim *rate.Limiter
}

// NewRateGate creates a gate permitting n calls per window.
func NewRateGate(n int, window time.Duration) *RateGate {
	if n < 1 {
		n = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &RateGate{
		lim: rate.NewLimiter(rate.Every(window/time.Duration(n)), n),
	}
}

// Acquire blocks until a permit is available or ctx is done. Arrival order
// is the only fairness guarantee.
func (g *RateGate) Acquire(ctx context.Context) error {
	return g.lim.Wait(ctx)
}
