package crawler

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token-bucket rate limiter with added jitter, matching the
// original crawler's RequestHandler.wait(): refill_rate tokens per second
// up to bucket_limit, and when the bucket is empty, wait for enough
// tokens to accumulate plus a uniform [-0.3, +0.3]s jitter.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter builds a Limiter with the given refill rate (tokens/second)
// and bucket capacity.
func NewLimiter(refillRate, bucketLimit float64) *Limiter {
	return &Limiter{rl: rate.NewLimiter(rate.Limit(refillRate), int(bucketLimit))}
}

// Wait takes a token at once when the bucket has one. Otherwise it
// blocks until a token is available plus a uniform [-0.3, +0.3]s
// jitter (clamped at zero), so crawls don't present a perfectly
// regular request cadence.
func (l *Limiter) Wait(ctx context.Context) error {
	r := l.rl.Reserve()
	if !r.OK() {
		return context.DeadlineExceeded
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	jitter := time.Duration((rand.Float64()*0.6 - 0.3) * float64(time.Second))
	wait := delay + jitter
	if wait < 0 {
		wait = 0
	}

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
