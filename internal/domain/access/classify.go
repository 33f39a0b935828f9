package access

import (
	"creator-platform/internal/domain/content"
)

// Classify partitions catalog into visible and locked items for viewer.
//
// Ungated items are visible to everyone. A gated item is visible only to
// a member whose tier is exactly the required tier; there is no rank or
// "at least" comparison. The owner sees everything, drafts included.
//
// Gated items whose tier is not one of catalog.TierIDs are locked for
// every non-owner and reported as anomalies. Non-published items are
// never shown to non-owners. Catalog order is preserved in both slices.
func Classify(viewer Viewer, catalog Catalog) Partition {
	known := make(map[string]struct{}, len(catalog.TierIDs))
	for _, id := range catalog.TierIDs {
		known[id] = struct{}{}
	}

	out := Partition{
		Visible: make([]content.Item, 0, len(catalog.Items)),
		Locked:  make([]content.Item, 0),
	}

	for _, item := range catalog.Items {
		foreign := false
		if item.AccessTierID != nil {
			if _, ok := known[*item.AccessTierID]; !ok {
				foreign = true
				out.Anomalies = append(out.Anomalies, Anomaly{
					ItemID: item.ID,
					TierID: *item.AccessTierID,
					Reason: AnomalyForeignTier,
				})
			}
		}

		if viewer.IsOwner() {
			out.Visible = append(out.Visible, item)
			continue
		}

		if !item.IsPublished() {
			out.Anomalies = append(out.Anomalies, Anomaly{
				ItemID: item.ID,
				Reason: AnomalyUnpublished,
			})
			continue
		}

		if canSee(viewer, item, foreign) {
			out.Visible = append(out.Visible, item)
		} else {
			out.Locked = append(out.Locked, item)
		}
	}

	return out
}

func canSee(viewer Viewer, item content.Item, foreign bool) bool {
	if !item.IsGated() {
		return true
	}
	if foreign {
		return false
	}
	if viewer.Kind != ViewerMember || viewer.TierID == nil {
		return false
	}
	return *viewer.TierID == *item.AccessTierID
}
