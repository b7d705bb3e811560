// Package ratelimit implements fixed-window attempt counters keyed by caller.
package ratelimit

import (
	"context"
	"time"
)

// Limiter counts attempts per key inside a fixed window.
type Limiter interface {
	// Allow records one attempt for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) bool
	// Reset forgets all attempts for key.
	Reset(ctx context.Context, key string)
}

type Options struct {
	Limit  int
	Window time.Duration
	Prefix string
}
