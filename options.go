package gopagestash

import (
	"time"

	"github.com/nordveil/goPageStash/metrics"
	"github.com/nordveil/goPageStash/tracing"
)

// Option configures a Fetcher.
type Option func(*config)

// WithTTL sets the lifetime of cache entries. The expiry is enforced by the
// store; one duration applies to every URL.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		c.ttl = d
	}
}

// WithCoalescing deduplicates concurrent cache-miss fetches for the same
// key: one caller fetches, the rest wait and share the result. Counters
// still increment once per caller. Off by default — without it, concurrent
// misses may each fetch and each write the cache entry.
func WithCoalescing() Option {
	return func(c *config) {
		c.coalesce = true
	}
}

// WithMetrics records request outcomes and fetch durations on the given
// Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracing creates an OpenTelemetry span for every Fetch call.
func WithTracing(cfg tracing.Config) Option {
	return func(c *config) {
		c.tracing = &cfg
	}
}
