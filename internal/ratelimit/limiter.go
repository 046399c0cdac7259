// Package ratelimit caps the rate at which workers issue operations.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing rps operations per second across all
// workers. rps of 0 disables limiting.
func New(rps int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), max(rps, 1)),
	}
}

// Wait blocks until the next operation may be issued. A nil receiver or a
// zero rate never blocks.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter.Limit() == 0 {
		return nil
	}
	return l.limiter.Wait(ctx)
}
