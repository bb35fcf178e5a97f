package sequence

import "sync"

// Locker serializes identifier generation per prefix within one process. The
// database unique constraint remains the correctness backstop once multiple
// instances write concurrently; the locker only avoids needless retries on a
// single node.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocker builds an empty per-prefix locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the prefix, creating it on first use.
func (l *Locker) Lock(prefix string) {
	l.mutexFor(prefix).Lock()
}

// Unlock releases the mutex for the prefix.
func (l *Locker) Unlock(prefix string) {
	l.mutexFor(prefix).Unlock()
}

func (l *Locker) mutexFor(prefix string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[prefix]
	if !ok {
		m = &sync.Mutex{}
		l.locks[prefix] = m
	}
	return m
}
