package access

import (
	"time"

	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
)

// OnTierChange turns a membership tier change into a recompute request.
// The partitions of the old and new tier are named for invalidation; the
// request is only Required when the effective tier actually moved.
func OnTierChange(change TierChange) RecomputeRequest {
	viewer := Member(change.UserID, change.NewTierID)

	issued := change.At
	if issued.IsZero() {
		issued = time.Now()
	}

	return RecomputeRequest{
		PlatformID:     change.PlatformID,
		MemberID:       change.MemberID,
		UserID:         change.UserID,
		Viewer:         &viewer,
		Reason:         change.Reason,
		InvalidateKeys: tierKeys(change.PlatformID, change.OldTierID, change.NewTierID),
		Required:       !members.SameTier(change.OldTierID, change.NewTierID),
		IssuedAt:       issued,
	}
}

func tierKeys(platformID string, oldTierID, newTierID *string) []string {
	keys := []string{TierPartitionKey(platformID, oldTierID)}
	if !members.SameTier(oldTierID, newTierID) {
		keys = append(keys, TierPartitionKey(platformID, newTierID))
	}
	return keys
}

// OnCatalogChange is the platform-wide counterpart of OnTierChange, used
// when content or tiers change: every cached partition and the catalog
// itself go stale.
func OnCatalogChange(platformID string, at time.Time) RecomputeRequest {
	return RecomputeRequest{
		PlatformID:     platformID,
		Reason:         ReasonCatalogChange,
		InvalidateKeys: []string{CatalogKey(platformID), PartitionPattern(platformID)},
		Required:       true,
		IssuedAt:       at,
	}
}

// ReasonFor picks the change reason from the actor and the tier prices.
// Prices are looked up in prices; a missing tier counts as free.
func ReasonFor(byOwner bool, oldTierID, newTierID *string, prices map[string]float64) ChangeReason {
	if byOwner {
		return ReasonAdminEdit
	}
	if newTierID == nil {
		return ReasonCancellation
	}

	var oldPrice, newPrice float64
	if oldTierID != nil {
		oldPrice = prices[*oldTierID]
	}
	newPrice = prices[*newTierID]

	if newPrice < oldPrice {
		return ReasonDowngrade
	}
	return ReasonUpgrade
}

// Diff lists the items that moved between partitions.
func Diff(before, after Partition) Delta {
	wasVisible := idSet(before.Visible)
	isVisible := idSet(after.Visible)

	d := Delta{
		NewlyVisible: make([]content.Item, 0),
		NewlyHidden:  make([]content.Item, 0),
	}
	for _, it := range after.Visible {
		if _, ok := wasVisible[it.ID]; !ok {
			d.NewlyVisible = append(d.NewlyVisible, it)
		}
	}
	for _, it := range before.Visible {
		if _, ok := isVisible[it.ID]; !ok {
			d.NewlyHidden = append(d.NewlyHidden, it)
		}
	}
	return d
}

func idSet(items []content.Item) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it.ID] = struct{}{}
	}
	return out
}
