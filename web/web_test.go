package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nordveil/goPageStash/breaker"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		_, _ = w.Write([]byte("hello"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient()
	body, err := c.Fetch(t.Context(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if body != "hello" {
		t.Fatalf("got %q, want %q", body, "hello")
	}
}

func TestClient_FetchSendsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(WithUserAgent("pagestash/1.0"))
	if _, err := c.Fetch(t.Context(), srv.URL); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if ua := gotUA.Load(); ua != "pagestash/1.0" {
		t.Fatalf("User-Agent = %v, want pagestash/1.0", ua)
	}
}

func TestClient_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	c := NewClient()
	if _, err := c.Fetch(t.Context(), srv.URL); err == nil {
		t.Fatal("expected error on 404 response")
	}
}

func TestClient_RejectsNonHTTPScheme(t *testing.T) {
	c := NewClient()
	if _, err := c.Fetch(t.Context(), "ftp://example.com"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestClient_HonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		<-started
		cancel()
	}()

	c := NewClient()
	if _, err := c.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error after context cancellation")
	}
}

func TestRateLimited_DelaysSecondFetch(t *testing.T) {
	var calls atomic.Int32
	stub := Func(func(_ context.Context, _ string) (string, error) {
		calls.Add(1)
		return "ok", nil
	})

	// 10 rps, burst 1: the second fetch must wait roughly 100ms for a token.
	rl := NewRateLimited(stub, 10, 1)
	ctx := t.Context()

	start := time.Now()
	if _, err := rl.Fetch(ctx, "http://example.com"); err != nil {
		t.Fatalf("Fetch 1: %v", err)
	}
	if _, err := rl.Fetch(ctx, "http://example.com"); err != nil {
		t.Fatalf("Fetch 2: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("second fetch not rate limited: both done in %s", elapsed)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("fetcher called %d times, want 2", n)
	}
}

func TestRateLimited_ContextCancelUnblocks(t *testing.T) {
	stub := Func(func(_ context.Context, _ string) (string, error) { return "ok", nil })
	rl := NewRateLimited(stub, 0.001, 1)

	ctx := t.Context()
	if _, err := rl.Fetch(ctx, "http://example.com"); err != nil {
		t.Fatalf("Fetch 1: %v", err)
	}

	// Bucket exhausted; a short deadline must abort the wait.
	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := rl.Fetch(ctx, "http://example.com"); err == nil {
		t.Fatal("expected context error while waiting for a token")
	}
}

func TestGuarded_TripsAndFailsFast(t *testing.T) {
	var calls atomic.Int32
	failing := Func(func(_ context.Context, _ string) (string, error) {
		calls.Add(1)
		return "", errors.New("upstream down")
	})

	g := NewGuarded(failing, breaker.Config{
		FailureThreshold:   2,
		OpenTimeout:        time.Minute,
		HalfOpenMaxSuccess: 1,
	})
	ctx := t.Context()

	for i := 0; i < 2; i++ {
		if _, err := g.Fetch(ctx, "http://example.com"); err == nil {
			t.Fatal("expected upstream error")
		}
	}

	// Circuit open: the upstream must not be called again.
	_, err := g.Fetch(ctx, "http://example.com")
	if !errors.Is(err, breaker.ErrOpen) {
		t.Fatalf("expected breaker.ErrOpen, got %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("upstream called %d times, want 2", n)
	}
}
