// Package gopagestash is a transparent caching and usage-tracking layer in
// front of an HTTP page fetcher. Every request for a URL increments a
// per-URL access counter; cached pages are served until their TTL elapses,
// and misses fetch, store, and return the page.
//
// The pipeline is explicit composition, not interception: a [Fetcher] holds
// an injected [store.Store] and [web.Fetcher] and exposes a single Fetch
// entry point. It keeps no state of its own beyond configuration, so all
// persisted state — counters and cached pages — lives in the store.
//
//	st, _ := store.NewMemory(10_000)
//	f := gopagestash.New(st, web.NewClient(), gopagestash.DefaultOptions()...)
//	body, err := f.Fetch(ctx, "http://example.com")
package gopagestash

import (
	"context"
	"sync"
	"time"

	"github.com/nordveil/goPageStash/keys"
	"github.com/nordveil/goPageStash/metrics"
	"github.com/nordveil/goPageStash/store"
	"github.com/nordveil/goPageStash/web"
)

// Fetcher counts, caches, and fetches pages. Safe for concurrent use; all
// mutable state lives in the injected store (and, when coalescing is
// enabled, in a transient per-key in-flight map).
type Fetcher struct {
	store store.Store
	pages web.Fetcher
	cfg   config

	mu    sync.Mutex
	loads map[string]*call
}

// call deduplicates concurrent fetches for the same cache key.
type call struct {
	wg  sync.WaitGroup
	val string
	err error
}

// New creates a Fetcher over the given store and page fetcher, applying the
// supplied functional options.
func New(st store.Store, pages web.Fetcher, opts ...Option) *Fetcher {
	cfg := config{ttl: DefaultTTL}
	for _, o := range opts {
		o(&cfg)
	}
	return &Fetcher{
		store: st,
		pages: pages,
		cfg:   cfg,
		loads: make(map[string]*call),
	}
}

// Fetch returns the content for url, serving from cache when a live entry
// exists and fetching-then-caching otherwise.
//
// The access counter for url is incremented on every call, hit or miss, and
// is never rolled back when a later step fails. Fetch and store failures
// propagate unmodified; nothing is retried and nothing is cached on error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := f.cfg.tracing.StartFetch(ctx, url)
	content, hit, err := f.fetch(ctx, url)
	span.End(hit, err)

	if m := f.cfg.metrics; m != nil {
		switch {
		case err != nil:
			m.RecordRequest(metrics.OutcomeError)
		case hit:
			m.RecordRequest(metrics.OutcomeHit)
		default:
			m.RecordRequest(metrics.OutcomeMiss)
		}
	}
	return content, err
}

// fetch runs the count → lookup → fetch-on-miss pipeline. The boolean
// reports a cache hit.
func (f *Fetcher) fetch(ctx context.Context, url string) (string, bool, error) {
	if _, err := f.store.Incr(ctx, keys.Counter(url)); err != nil {
		return "", false, err
	}

	key := keys.Derive(url)

	val, ok, err := f.store.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if ok {
		// Presence decides the hit, not truthiness: a cached empty page
		// is served as-is.
		return string(val), true, nil
	}

	if f.cfg.coalesce {
		content, err := f.coalesced(ctx, url, key)
		return content, false, err
	}
	content, err := f.fetchAndStore(ctx, url, key)
	return content, false, err
}

// fetchAndStore performs the miss leg: fetch the page and cache it under key
// with the configured TTL.
func (f *Fetcher) fetchAndStore(ctx context.Context, url, key string) (string, error) {
	start := time.Now()
	content, err := f.pages.Fetch(ctx, url)
	if m := f.cfg.metrics; m != nil {
		m.ObserveFetch(time.Since(start))
	}
	if err != nil {
		return "", err
	}
	if err := f.store.SetEx(ctx, key, []byte(content), f.cfg.ttl); err != nil {
		return "", err
	}
	return content, nil
}

// coalesced shares a single in-flight fetch+store between concurrent misses
// for the same key. Each caller has already incremented the counter.
func (f *Fetcher) coalesced(ctx context.Context, url, key string) (string, error) {
	f.mu.Lock()
	if c, ok := f.loads[key]; ok {
		f.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}

	c := &call{}
	c.wg.Add(1)
	f.loads[key] = c
	f.mu.Unlock()

	c.val, c.err = f.fetchAndStore(ctx, url, key)
	c.wg.Done()

	f.mu.Lock()
	delete(f.loads, key)
	f.mu.Unlock()

	return c.val, c.err
}
