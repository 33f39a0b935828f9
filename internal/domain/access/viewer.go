package access

import (
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
)

// EffectiveTier is the tier a member may exercise right now. Only active
// members carry their tier; pending and inactive members count as having
// no paid tier.
func EffectiveTier(m *members.Member) *string {
	if !m.IsActive() || m.TierID == nil {
		return nil
	}
	id := *m.TierID
	return &id
}

// ViewerFor resolves who userID is on platform p. An empty userID is an
// anonymous visitor; an authenticated user without a membership row is a
// member without a tier.
func ViewerFor(p *platforms.Platform, m *members.Member, userID string) Viewer {
	if userID == "" {
		return Anonymous()
	}
	if p.IsOwner(userID) {
		return Owner(userID)
	}
	if m == nil || m.UserID != userID {
		return Member(userID, nil)
	}
	return Member(userID, EffectiveTier(m))
}

// CacheKey identifies the cached partition the viewer is served from.
// Classify depends only on the viewer's kind and tier, so members on the
// same tier share one entry and a tier change moves the member to a
// different key.
func (v Viewer) CacheKey(platformID string) string {
	switch v.Kind {
	case ViewerOwner:
		return PartitionKey(platformID, "owner")
	case ViewerMember:
		return TierPartitionKey(platformID, v.TierID)
	default:
		return PartitionKey(platformID, "anonymous")
	}
}

// TierPartitionKey is the partition shared by members on tierID (nil is
// no paid tier).
func TierPartitionKey(platformID string, tierID *string) string {
	if tierID == nil {
		return PartitionKey(platformID, "tier:none")
	}
	return PartitionKey(platformID, "tier:"+*tierID)
}

// PartitionKey is the cache key of one partition of a platform.
func PartitionKey(platformID, scope string) string {
	return "partition:" + platformID + ":" + scope
}

// PartitionPattern matches every cached partition of a platform.
func PartitionPattern(platformID string) string {
	return "partition:" + platformID + ":*"
}

// CatalogKey is the cache key of a platform's published catalog.
func CatalogKey(platformID string) string {
	return "catalog:" + platformID
}
