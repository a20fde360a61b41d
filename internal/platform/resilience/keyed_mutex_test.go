package resilience

import (
	"sync"
	"testing"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	t.Parallel()

	var m KeyedMutex
	counter := 0

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.Lock("same")
			counter++
			m.Unlock("same")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
}

func TestKeyedMutex_ReleasesIdleKeys(t *testing.T) {
	t.Parallel()

	var m KeyedMutex
	m.Lock("k")
	m.Unlock("k")

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.locks) != 0 {
		t.Fatalf("expected idle key dropped from the map, got %d entries", len(m.locks))
	}
}
