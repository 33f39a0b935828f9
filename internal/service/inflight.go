package service

import (
	"errors"
	"sync"
)

// ErrBusy is wrapped by the Conflict returned when a write for the same
// member is already running. Retrying later may succeed.
var ErrBusy = errors.New("another change for this member is in progress")

// InFlight allows at most one running operation per key. A second caller
// for a busy key is turned away instead of queued.
type InFlight struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{busy: make(map[string]struct{})}
}

// Acquire marks key busy. ok is false when it already was; otherwise the
// caller must call release exactly once.
func (f *InFlight) Acquire(key string) (release func(), ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, taken := f.busy[key]; taken {
		return nil, false
	}
	f.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, true
}

func (f *InFlight) Busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, taken := f.busy[key]
	return taken
}
