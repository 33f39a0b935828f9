package service

import "sync"

// StaleGuard hands out increasing tokens per key so that a slow result
// does not overwrite the result of a newer request for the same key.
type StaleGuard struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewStaleGuard() *StaleGuard {
	return &StaleGuard{latest: make(map[string]uint64)}
}

// Begin returns a token newer than every token issued for key so far.
func (g *StaleGuard) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest[key]++
	return g.latest[key]
}

// Current reports whether token is still the newest for key.
func (g *StaleGuard) Current(key string, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[key] == token
}

func (g *StaleGuard) Forget(key string) {
	g.mu.Lock()
	delete(g.latest, key)
	g.mu.Unlock()
}
