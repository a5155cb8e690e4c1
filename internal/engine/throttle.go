package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces the minimum delay between consecutive application
// attempts. The first wait never blocks; every later wait observes the
// configured gap.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle builds a throttle with the given minimum gap between attempts.
// A non-positive gap disables throttling.
func NewThrottle(minDelay time.Duration) *Throttle {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	// Burst of one: the initial token is free, then tokens refill at the
	// configured gap.
	return &Throttle{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next attempt is allowed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
