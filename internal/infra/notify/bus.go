// Package notify delivers recompute requests to whoever renders content
// (the SSE stream, other instances through redis).
package notify

import (
	"context"
	"sync"

	"creator-platform/internal/domain/access"
	"creator-platform/internal/infra/metrics"
)

type Handler func(access.RecomputeRequest)

// Forwarder receives every locally published request, e.g. to relay it
// to other instances.
type Forwarder func(ctx context.Context, req access.RecomputeRequest) error

// Bus is an in-process fan-out. Handlers run synchronously on the
// publishing goroutine and must not block.
type Bus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
	forward  Forwarder
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers fn and returns a func that removes it.
func (b *Bus) Subscribe(fn Handler) (cancel func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

func (b *Bus) SetForwarder(f Forwarder) {
	b.mu.Lock()
	b.forward = f
	b.mu.Unlock()
}

// Publish delivers req locally and hands it to the forwarder, if any.
func (b *Bus) Publish(ctx context.Context, req access.RecomputeRequest) error {
	scope := "member"
	if req.PlatformWide() {
		scope = "platform"
	}
	metrics.RecomputeEvents.WithLabelValues(scope).Inc()

	b.Deliver(req)

	b.mu.RLock()
	f := b.forward
	b.mu.RUnlock()
	if f == nil {
		return nil
	}
	return f(ctx, req)
}

// Deliver runs the local handlers only.
func (b *Bus) Deliver(req access.RecomputeRequest) {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(req)
	}
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
