package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func() (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func() (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatal("expected fresh entry to be served")
	}

	current = current.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expected entry evicted after TTL")
	}
}

func TestStore_GetOrLoad_PropagatesLoadError(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("load failed")

	if _, err := store.GetOrLoad(context.Background(), "k", func() (any, error) {
		return nil, wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("expected load error, got %v", err)
	}

	// A failed load caches nothing.
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expected no cached value after a failed load")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
