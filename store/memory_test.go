package store

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func mustNewMemory(t *testing.T) *Memory {
	t.Helper()
	m, err := NewMemory(1000)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMemory_GetSetEx(t *testing.T) {
	m := mustNewMemory(t)
	ctx := t.Context()

	// Miss returns false.
	_, ok, err := m.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}

	if err := m.SetEx(ctx, "k1", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("SetEx error: %v", err)
	}
	val, ok, err := m.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if string(val) != "v1" {
		t.Fatalf("got %q, want %q", val, "v1")
	}
}

func TestMemory_EmptyValueIsPresent(t *testing.T) {
	m := mustNewMemory(t)
	ctx := t.Context()

	if err := m.SetEx(ctx, "empty", []byte(""), time.Minute); err != nil {
		t.Fatalf("SetEx error: %v", err)
	}
	val, ok, err := m.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("present-but-empty value reported as a miss")
	}
	if len(val) != 0 {
		t.Fatalf("got %q, want empty", val)
	}
}

func TestMemory_TTLExpires(t *testing.T) {
	m := mustNewMemory(t)
	ctx := t.Context()

	if err := m.SetEx(ctx, "ttl", []byte("temp"), 50*time.Millisecond); err != nil {
		t.Fatalf("SetEx error: %v", err)
	}

	_, ok, _ := m.Get(ctx, "ttl")
	if !ok {
		t.Fatal("expected hit before TTL")
	}

	// Ristretto cleanup may need a bit of extra time.
	time.Sleep(200 * time.Millisecond)

	_, ok, _ = m.Get(ctx, "ttl")
	if ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestMemory_IncrSequence(t *testing.T) {
	m := mustNewMemory(t)
	ctx := t.Context()

	for want := int64(1); want <= 3; want++ {
		n, err := m.Incr(ctx, "count:http://example.com")
		if err != nil {
			t.Fatalf("Incr error: %v", err)
		}
		if n != want {
			t.Fatalf("Incr = %d, want %d", n, want)
		}
	}
}

func TestMemory_IncrConcurrent(t *testing.T) {
	m := mustNewMemory(t)
	ctx := t.Context()

	const (
		goroutines = 16
		perG       = 100
	)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				if _, err := m.Incr(ctx, "c"); err != nil {
					t.Errorf("Incr error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	n, err := m.Incr(ctx, "c")
	if err != nil {
		t.Fatalf("Incr error: %v", err)
	}
	if want := int64(goroutines*perG + 1); n != want {
		t.Fatalf("lost increments: counter = %d, want %d", n, want)
	}
}

func TestMemory_CountersIndependent(t *testing.T) {
	m := mustNewMemory(t)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		urlA := fmt.Sprintf("count:http://a.example/%d", i)
		if _, err := m.Incr(ctx, urlA); err != nil {
			t.Fatalf("Incr error: %v", err)
		}
	}
	n, err := m.Incr(ctx, "count:http://b.example")
	if err != nil {
		t.Fatalf("Incr error: %v", err)
	}
	if n != 1 {
		t.Fatalf("fresh counter = %d, want 1", n)
	}
}
