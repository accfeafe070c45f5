package locking

// per-row reader/writer latch
// scoped helpers guarantee the latch is released on every exit path

import "sync"

type RWLatch struct {
	mu sync.RWMutex
}

func (l *RWLatch) RLock()   { l.mu.RLock() }
func (l *RWLatch) RUnlock() { l.mu.RUnlock() }
func (l *RWLatch) Lock()    { l.mu.Lock() }
func (l *RWLatch) Unlock()  { l.mu.Unlock() }

// WithRead runs fn while holding the shared latch.
func (l *RWLatch) WithRead(fn func() error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return fn()
}

// WithWrite runs fn while holding the exclusive latch.
func (l *RWLatch) WithWrite(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}
