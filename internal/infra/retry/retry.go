// Package retry runs idempotent store reads with bounded exponential
// backoff. Only transient failures are retried.
package retry

import (
	"context"
	"time"

	"creator-platform/internal/apperr"
	"creator-platform/internal/infra/metrics"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	eb.MaxElapsedTime = 0

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// Do calls fn until it succeeds, returns a non-transient error, the
// attempts run out or ctx is done. The last error is returned as is.
func Do(ctx context.Context, p Policy, op string, fn func() error) error {
	attempt := 0
	return backoff.Retry(func() error {
		if attempt > 0 {
			metrics.RetryAttempts.WithLabelValues(op).Inc()
		}
		attempt++

		err := fn()
		if err == nil || apperr.IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, p.backOff(ctx))
}

// Value is Do for calls that return a result.
func Value[T any](ctx context.Context, p Policy, op string, fn func() (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, op, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
