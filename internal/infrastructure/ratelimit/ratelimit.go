// Package ratelimit paces outbound platform API calls. Every adapter
// instance owns one Limiter; each network call acquires a slot before
// dispatch so no two calls leave less than the configured delay apart.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum inter-request delay for one adapter instance.
// The policy is delay-based rather than burst-oriented; platforms with a
// documented burst allowance can model it with a larger burst size.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a limiter with the given minimum delay between requests.
// A burst below 1 is treated as 1.
func New(minInterval time.Duration, burst int) *Limiter {
	if minInterval <= 0 {
		minInterval = time.Millisecond
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter:  rate.NewLimiter(rate.Every(minInterval), burst),
		interval: minInterval,
	}
}

// PerWindow derives the inter-request delay from an "N requests per T"
// platform contract.
func PerWindow(requests int, window time.Duration, burst int) *Limiter {
	if requests < 1 {
		requests = 1
	}
	return New(window/time.Duration(requests), burst)
}

// Await blocks the caller until a request slot is free or the context is
// done. Safe for concurrent use; callers are serialized so no two may
// bypass the delay.
func (l *Limiter) Await(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Interval returns the configured minimum inter-request delay
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
