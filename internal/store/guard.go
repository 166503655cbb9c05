package store

import "sync"

// Guard serializes read-modify-write cycles against one stored collection.
// Saves replace the whole collection, so two writers that interleave their
// load and save calls silently drop each other's changes even when they touch
// different records. Adapters do no locking of their own; every writer runs
// its full load-mutate-save cycle while holding the collection's guard.
type Guard struct {
	mu sync.Mutex
}

func (g *Guard) Lock()   { g.mu.Lock() }
func (g *Guard) Unlock() { g.mu.Unlock() }

// Guards bundles one guard per collection. All services mutating the same
// store must share a single instance.
type Guards struct {
	Events   Guard
	Bookings Guard
}
