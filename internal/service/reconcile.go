package service

import (
	"context"

	"creator-platform/internal/domain/access"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/infra/metrics"

	"go.uber.org/zap"
)

const staleWarning = "membership updated, but the visible content could not be refreshed; reload to see the current view"

// TierChangeResult reports a reconciled membership change. When Stale is
// set the write went through but the delta could not be verified against
// a fresh catalog.
type TierChangeResult struct {
	Member  *members.Member         `json:"member"`
	Request access.RecomputeRequest `json:"recompute"`
	Delta   access.Delta            `json:"delta"`
	Stale   bool                    `json:"stale"`
	Warning string                  `json:"warning,omitempty"`
}

// snapshot classifies the catalog for m as it is before a write. A nil
// result means the catalog was unavailable.
func (s *Service) snapshot(ctx context.Context, p *platforms.Platform, m *members.Member) *access.Partition {
	cat, err := s.catalog(ctx, p.ID)
	if err != nil {
		s.log.Warn("pre-change catalog unavailable",
			zap.String("platform_id", p.ID),
			zap.String("member_id", m.ID),
			zap.Error(err),
		)
		return nil
	}
	part := access.Classify(access.ViewerFor(p, m, m.UserID), cat)
	return &part
}

// reconcile runs after a successful membership write: it invalidates the
// partitions of the old and new tier, re-classifies against a freshly
// loaded catalog and publishes the recompute request.
func (s *Service) reconcile(
	ctx context.Context,
	p *platforms.Platform,
	before, after *members.Member,
	reason access.ChangeReason,
	prior *access.Partition,
) *TierChangeResult {
	change := access.TierChange{
		PlatformID: p.ID,
		MemberID:   after.ID,
		UserID:     after.UserID,
		OldTierID:  access.EffectiveTier(before),
		NewTierID:  access.EffectiveTier(after),
		Reason:     reason,
		At:         s.now(),
	}
	req := access.OnTierChange(change)
	res := &TierChangeResult{Member: after, Request: req}

	s.invalidate(ctx, req.InvalidateKeys...)
	if req.Required {
		metrics.TierChanges.WithLabelValues(string(reason)).Inc()
	}

	cat, err := s.loadCatalog(ctx, p.ID)
	if err != nil || prior == nil {
		res.Stale = true
		res.Warning = staleWarning
		metrics.StaleResults.Inc()
		s.log.Warn("membership change not re-verified",
			zap.String("platform_id", p.ID),
			zap.String("member_id", after.ID),
			zap.String("reason", string(reason)),
			zap.Error(err),
		)
	} else {
		next := s.classify(access.ViewerFor(p, after, after.UserID), cat)
		res.Delta = access.Diff(*prior, next)
	}

	s.publish(ctx, req)

	s.log.Info("membership reconciled",
		zap.String("platform_id", p.ID),
		zap.String("member_id", after.ID),
		zap.String("reason", string(reason)),
		zap.Bool("required", req.Required),
		zap.Bool("stale", res.Stale),
		zap.Int("newly_visible", len(res.Delta.NewlyVisible)),
		zap.Int("newly_hidden", len(res.Delta.NewlyHidden)),
	)
	return res
}

// catalogChanged is the platform-wide reconciliation after content or
// tier edits.
func (s *Service) catalogChanged(ctx context.Context, platformID string) access.RecomputeRequest {
	req := access.OnCatalogChange(platformID, s.now())
	s.invalidate(ctx, req.InvalidateKeys...)
	s.publish(ctx, req)
	return req
}
