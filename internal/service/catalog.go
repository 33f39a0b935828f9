package service

import (
	"context"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
	"creator-platform/internal/infra/metrics"
	"creator-platform/internal/infra/retry"

	"go.uber.org/zap"
)

// ContentView is one viewer's classified view of a platform.
type ContentView struct {
	Platform  *platforms.Platform
	Viewer    access.Viewer
	Partition access.Partition
	// tier names by ID, for rendering locked teasers
	TierNames map[string]string
}

// ViewContent classifies the platform's content for userID ("" for an
// anonymous visitor).
func (s *Service) ViewContent(ctx context.Context, platformID, userID string) (*ContentView, error) {
	p, err := s.platform(ctx, platformID)
	if err != nil {
		return nil, err
	}
	m, err := s.membership(ctx, p, userID)
	if err != nil {
		return nil, err
	}
	viewer := access.ViewerFor(p, m, userID)

	ts, err := s.tiers(ctx, platformID)
	if err != nil {
		return nil, err
	}
	view := &ContentView{Platform: p, Viewer: viewer, TierNames: tierNames(ts)}

	if viewer.IsOwner() {
		cat, err := s.ownerCatalog(ctx, platformID, ts)
		if err != nil {
			return nil, err
		}
		view.Partition = s.classify(viewer, cat)
		return view, nil
	}

	key := viewer.CacheKey(platformID)
	var cached access.Partition
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("partition cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		view.Partition = cached
		return view, nil
	}

	cat, err := s.catalog(ctx, platformID)
	if err != nil {
		return nil, err
	}
	view.Partition = s.classify(viewer, cat)

	if err := s.cache.Set(ctx, key, view.Partition, s.cacheTTL); err != nil {
		s.log.Warn("partition cache write failed", zap.String("key", key), zap.Error(err))
	}
	return view, nil
}

// membership returns userID's member row on p, or nil for anonymous
// visitors, the owner and users who never joined.
func (s *Service) membership(ctx context.Context, p *platforms.Platform, userID string) (*members.Member, error) {
	if userID == "" || p.IsOwner(userID) {
		return nil, nil
	}
	m, err := retry.Value(ctx, s.retry, "GetMember", func() (*members.Member, error) {
		return s.store.GetMember(ctx, p.ID, userID)
	})
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	return m, err
}

func (s *Service) tiers(ctx context.Context, platformID string) ([]tiers.Tier, error) {
	return retry.Value(ctx, s.retry, "GetTiers", func() ([]tiers.Tier, error) {
		return s.store.GetTiers(ctx, platformID)
	})
}

func (s *Service) classify(viewer access.Viewer, cat access.Catalog) access.Partition {
	part := access.Classify(viewer, cat)

	metrics.Classifications.WithLabelValues(string(viewer.Kind)).Inc()
	for _, a := range part.Anomalies {
		metrics.Anomalies.WithLabelValues(string(a.Reason)).Inc()
		s.log.Warn("content access anomaly",
			zap.String("platform_id", cat.PlatformID),
			zap.String("item_id", a.ItemID),
			zap.String("tier_id", a.TierID),
			zap.String("reason", string(a.Reason)),
		)
	}
	return part
}

// catalog returns the platform's published catalog, from the cache when
// possible.
func (s *Service) catalog(ctx context.Context, platformID string) (access.Catalog, error) {
	key := access.CatalogKey(platformID)

	var cat access.Catalog
	ok, err := s.cache.Get(ctx, key, &cat)
	if err != nil {
		s.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return cat, nil
	}
	return s.loadCatalog(ctx, platformID)
}

// loadCatalog reads the catalog from the store and refreshes the cache.
// Concurrent loads of the same platform share one store round trip.
func (s *Service) loadCatalog(ctx context.Context, platformID string) (access.Catalog, error) {
	key := access.CatalogKey(platformID)

	v, err, _ := s.loads.Do(key, func() (interface{}, error) {
		items, err := retry.Value(ctx, s.retry, "GetPublishedContent", func() ([]content.Item, error) {
			return s.store.GetPublishedContent(ctx, platformID)
		})
		if err != nil {
			return nil, err
		}
		ts, err := s.tiers(ctx, platformID)
		if err != nil {
			return nil, err
		}

		cat := access.Catalog{PlatformID: platformID, Items: items, TierIDs: tiers.IDs(ts)}
		if err := s.cache.Set(ctx, key, cat, s.cacheTTL); err != nil {
			s.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
		return cat, nil
	})
	if err != nil {
		return access.Catalog{}, err
	}
	return v.(access.Catalog), nil
}

// ownerCatalog includes drafts and scheduled items and is never cached.
func (s *Service) ownerCatalog(ctx context.Context, platformID string, ts []tiers.Tier) (access.Catalog, error) {
	items, err := retry.Value(ctx, s.retry, "ListContent", func() ([]content.Item, error) {
		return s.store.ListContent(ctx, platformID)
	})
	if err != nil {
		return access.Catalog{}, err
	}
	return access.Catalog{PlatformID: platformID, Items: items, TierIDs: tiers.IDs(ts)}, nil
}

func tierNames(ts []tiers.Tier) map[string]string {
	out := make(map[string]string, len(ts))
	for _, t := range ts {
		out[t.ID] = t.Name
	}
	return out
}
