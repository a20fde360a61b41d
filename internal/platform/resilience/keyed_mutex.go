package resilience

import "sync"

// KeyedMutex serializes critical sections per key. The projector uses it to
// guard the read-modify-write of one (scope, participant) score record so two
// mutations for the same key cannot interleave.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu      sync.Mutex
	waiters int
}

// Lock acquires the mutex for key, blocking until it is free.
func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	if m.locks == nil {
		m.locks = make(map[string]*keyedLock)
	}
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{}
		m.locks[key] = l
	}
	l.waiters++
	m.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for key. The per-key lock is dropped once no
// goroutine waits on it, so the map does not grow unbounded.
func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if ok {
		l.waiters--
		if l.waiters == 0 {
			delete(m.locks, key)
		}
	}
	m.mu.Unlock()

	if ok {
		l.mu.Unlock()
	}
}
