package gopagestash

import "time"

// DefaultTTL is the cache entry lifetime used when WithTTL is not supplied.
const DefaultTTL = 10 * time.Second

// DefaultOptions returns the recommended set of options for production use.
// Coalescing is not included; enable it explicitly when at-most-one-fetch
// per key matters more than fetch latency under contention.
func DefaultOptions() []Option {
	return []Option{
		WithTTL(DefaultTTL),
	}
}
