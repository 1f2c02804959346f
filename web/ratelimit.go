package web

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Fetcher with a token-bucket gate on outbound fetches.
// Callers block until a token is available or ctx is done; the underlying
// fetch is never issued faster than the configured rate.
type RateLimited struct {
	next Fetcher
	lim  *rate.Limiter
}

// NewRateLimited creates a rate-limited fetcher permitting rps fetches per
// second with the given burst size.
func NewRateLimited(next Fetcher, rps float64, burst int) *RateLimited {
	return &RateLimited{
		next: next,
		lim:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for a token and delegates to the wrapped fetcher.
func (r *RateLimited) Fetch(ctx context.Context, url string) (string, error) {
	if err := r.lim.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Fetch(ctx, url)
}
