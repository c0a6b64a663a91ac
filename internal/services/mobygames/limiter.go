package mobygames

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// IntervalLimiter serializes outbound API calls to one request per fixed
// interval. All endpoints share one limiter, so peak throughput stays at one
// request per interval no matter how many workers are fetching.
type IntervalLimiter struct {
	lim *rate.Limiter
}

// NewIntervalLimiter creates a limiter enforcing the given minimum spacing.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	// Burst of 1 turns the token bucket into a plain minimum-interval gate.
	return &IntervalLimiter{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire blocks until the caller may issue the next request.
func (l *IntervalLimiter) Acquire(ctx context.Context) error {
	return l.lim.Wait(ctx)
}
