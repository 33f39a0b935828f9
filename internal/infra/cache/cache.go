// Package cache holds derived read data (catalogs, viewer partitions).
// The Membership Store stays the source of truth; a cache failure is
// logged by callers and treated as a miss.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the value at key into dst and reports whether it was
	// present.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Invalidate deletes keys. A key ending in '*' is a pattern.
	Invalidate(ctx context.Context, keys ...string) error
}

// Noop never stores anything. Used when redis is not configured.
type Noop struct{}

var _ Cache = Noop{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

func (Noop) Invalidate(context.Context, ...string) error { return nil }
