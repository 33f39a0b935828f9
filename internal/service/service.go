// Package service orchestrates the Membership Store, the cache and the
// notification bus around the access rules in domain/access.
package service

import (
	"context"
	"time"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/infra/cache"
	"creator-platform/internal/infra/logger"
	"creator-platform/internal/infra/retry"
	"creator-platform/internal/infra/stripe"
	"creator-platform/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Publisher receives recompute requests after a reconciliation.
type Publisher interface {
	Publish(ctx context.Context, req access.RecomputeRequest) error
}

type Options struct {
	Cache      cache.Cache
	Bus        Publisher
	Prices     stripe.PriceSource
	Logger     *zap.Logger
	Retry      retry.Policy
	CacheTTL   time.Duration
	BaseDomain string
	Now        func() time.Time
}

type Service struct {
	store  store.Store
	cache  cache.Cache
	bus    Publisher
	prices stripe.PriceSource
	log    *zap.Logger

	retry      retry.Policy
	cacheTTL   time.Duration
	baseDomain string
	now        func() time.Time

	inflight *InFlight
	loads    singleflight.Group
}

func New(st store.Store, opts Options) *Service {
	s := &Service{
		store:      st,
		cache:      opts.Cache,
		bus:        opts.Bus,
		prices:     opts.Prices,
		log:        logger.OrNop(opts.Logger),
		retry:      opts.Retry,
		cacheTTL:   opts.CacheTTL,
		baseDomain: opts.BaseDomain,
		now:        opts.Now,
		inflight:   NewInFlight(),
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.bus == nil {
		s.bus = nopPublisher{}
	}
	if s.retry.MaxAttempts == 0 {
		s.retry = retry.DefaultPolicy()
	}
	if s.cacheTTL == 0 {
		s.cacheTTL = 5 * time.Minute
	}
	if s.baseDomain == "" {
		s.baseDomain = "localhost"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, access.RecomputeRequest) error { return nil }

// ---- shared helpers ----

func (s *Service) platform(ctx context.Context, id string) (*platforms.Platform, error) {
	return retry.Value(ctx, s.retry, "GetPlatform", func() (*platforms.Platform, error) {
		return s.store.GetPlatform(ctx, id)
	})
}

// ownedPlatform loads the platform and requires actor to own it.
func (s *Service) ownedPlatform(ctx context.Context, op, actor, id string) (*platforms.Platform, error) {
	if actor == "" {
		return nil, apperr.Unauthorized(op, "sign in required")
	}
	p, err := s.platform(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOwner(actor) {
		return nil, apperr.Unauthorized(op, "only the platform owner can do this")
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, req access.RecomputeRequest) {
	if err := s.bus.Publish(ctx, req); err != nil {
		s.log.Warn("recompute publish failed",
			zap.String("platform_id", req.PlatformID),
			zap.String("reason", string(req.Reason)),
			zap.Error(err),
		)
	}
}
