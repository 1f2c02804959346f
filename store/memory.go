package store

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Memory is an in-process Store: cached pages live in a ristretto cache with
// native TTL support, counters in a mutex-guarded map. Suitable for tests,
// demos, and single-process deployments.
type Memory struct {
	rc *ristretto.Cache[string, []byte]

	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an in-process store. maxCost bounds the number of cached
// pages (each entry has a cost of 1). Counters are unbounded; they are small
// and never expire.
func NewMemory(maxCost int64) (*Memory, error) {
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{
		rc:       rc,
		counters: make(map[string]int64),
	}, nil
}

// Incr increments the named counter under the lock and returns the new value.
func (m *Memory) Incr(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
	return m.counters[name], nil
}

// Get retrieves a value by key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

// SetEx stores a value under key with the given TTL.
func (m *Memory) SetEx(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.rc.SetWithTTL(key, bytes.Clone(val), 1, ttl)
	m.rc.Wait()
	return nil
}

// Close releases the ristretto cache resources.
func (m *Memory) Close() error {
	m.rc.Close()
	return nil
}
