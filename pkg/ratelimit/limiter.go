package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of one Allow call.
type Result struct {
	Limit     int64
	Remaining int64
	Reset     time.Duration
	Allowed   bool
}

// Limiter allows at most limit hits per key in each window.
type Limiter struct {
	store  Store
	max    int64
	window time.Duration
}

// NewLimiter creates a limiter backed by store.
func NewLimiter(store Store, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: store, max: limit, window: window}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	n, reset, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Limit:     l.max,
		Remaining: max(l.max-n, 0),
		Reset:     reset,
		Allowed:   n <= l.max,
	}, nil
}
