// Package store defines the key-value contract the page stash persists
// through, along with Redis, in-process, and Bolt implementations. The store
// exclusively owns all persisted state: access counters and cached pages.
package store

import (
	"context"
	"time"
)

// Store is the persistence contract consumed by the fetch pipeline.
//
// Errors are surfaced, never swallowed: a store that cannot be reached must
// say so, because silently treating failures as misses would corrupt the
// access counters.
type Store interface {
	// Incr atomically increments the named counter and returns the new
	// value. A missing counter starts at zero. Concurrent increments must
	// never be lost.
	Incr(ctx context.Context, name string) (int64, error)

	// Get retrieves a value by key. The boolean reports presence, so a
	// stored empty value is still a hit. Expired entries are absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetEx stores a value under key, expiring after ttl. The expiry is
	// managed by the store, not by callers.
	SetEx(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
