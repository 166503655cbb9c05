package booking

import (
	"context"
	"sync"
)

// KeyedLock is the in-process EventLocker: one mutex per event id, created on
// first use and dropped once nobody holds or waits on it. It serializes the
// engine's read-check-mutate-persist cycle for a single service instance;
// multi-instance deployments swap in the redis driver.
type KeyedLock struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{entries: make(map[string]*lockEntry)}
}

// LockEvent blocks until the event's mutex is held. The context is accepted
// for interface parity with the redis driver; an in-process wait is short
// enough that it is not interrupted.
func (l *KeyedLock) LockEvent(ctx context.Context, eventID string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[eventID]
	if !ok {
		entry = &lockEntry{}
		l.entries[eventID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			entry.mu.Unlock()
			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.entries, eventID)
			}
			l.mu.Unlock()
		})
	}
	return release, nil
}
