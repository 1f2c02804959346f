package web

import (
	"context"

	"github.com/nordveil/goPageStash/breaker"
)

// Guarded wraps a Fetcher with a circuit breaker. When the upstream has
// failed often enough to trip the circuit, Fetch fails fast with
// breaker.ErrOpen instead of issuing the request. Nothing is ever retried.
type Guarded struct {
	next Fetcher
	br   *breaker.Breaker
}

// NewGuarded creates a breaker-guarded fetcher.
func NewGuarded(next Fetcher, cfg breaker.Config) *Guarded {
	return &Guarded{
		next: next,
		br:   breaker.New(cfg),
	}
}

// Fetch delegates through the breaker.
func (g *Guarded) Fetch(ctx context.Context, url string) (string, error) {
	return g.br.Do(func() (string, error) {
		return g.next.Fetch(ctx, url)
	})
}
