package access

import (
	"time"

	"creator-platform/internal/domain/content"
)

type ViewerKind string

const (
	ViewerAnonymous ViewerKind = "anonymous"
	ViewerMember    ViewerKind = "member"
	ViewerOwner     ViewerKind = "owner"
)

// Viewer is who is looking at a platform. Members carry their effective
// tier; nil means no paid tier.
type Viewer struct {
	Kind   ViewerKind `json:"kind"`
	UserID string     `json:"user_id,omitempty"`
	TierID *string    `json:"tier_id,omitempty"`
}

func Anonymous() Viewer {
	return Viewer{Kind: ViewerAnonymous}
}

func Member(userID string, tierID *string) Viewer {
	return Viewer{Kind: ViewerMember, UserID: userID, TierID: tierID}
}

func Owner(userID string) Viewer {
	return Viewer{Kind: ViewerOwner, UserID: userID}
}

func (v Viewer) IsOwner() bool { return v.Kind == ViewerOwner }

func (v Viewer) IsAuthenticated() bool { return v.Kind != ViewerAnonymous }

// Catalog is one platform's content in fetch order plus the IDs of the
// tiers that belong to the platform.
type Catalog struct {
	PlatformID string         `json:"platform_id"`
	Items      []content.Item `json:"items"`
	TierIDs    []string       `json:"tier_ids"`
}

type AnomalyReason string

const (
	// access tier does not belong to the platform
	AnomalyForeignTier AnomalyReason = "foreign_tier"
	// non-published item reached a non-owner classification
	AnomalyUnpublished AnomalyReason = "unpublished"
)

type Anomaly struct {
	ItemID string        `json:"item_id"`
	TierID string        `json:"tier_id,omitempty"`
	Reason AnomalyReason `json:"reason"`
}

type Partition struct {
	Visible   []content.Item `json:"visible"`
	Locked    []content.Item `json:"locked"`
	Anomalies []Anomaly      `json:"anomalies,omitempty"`
}

type ChangeReason string

const (
	ReasonUpgrade      ChangeReason = "upgrade"
	ReasonDowngrade    ChangeReason = "downgrade"
	ReasonAdminEdit    ChangeReason = "admin_edit"
	ReasonCancellation ChangeReason = "cancellation"
	ReasonStatusChange ChangeReason = "status_change"
	// platform-wide: content or tiers changed
	ReasonCatalogChange ChangeReason = "catalog_change"
)

// TierChange is the single event the access layer reacts to. Old and new
// tiers are effective tiers (see EffectiveTier).
type TierChange struct {
	PlatformID string       `json:"platform_id"`
	MemberID   string       `json:"member_id"`
	UserID     string       `json:"user_id"`
	OldTierID  *string      `json:"old_tier_id"`
	NewTierID  *string      `json:"new_tier_id"`
	Reason     ChangeReason `json:"reason"`
	At         time.Time    `json:"at"`
}

// RecomputeRequest tells the presentation layer to re-run Classify.
type RecomputeRequest struct {
	PlatformID     string       `json:"platform_id"`
	MemberID       string       `json:"member_id,omitempty"`
	UserID         string       `json:"user_id,omitempty"`
	Viewer         *Viewer      `json:"viewer,omitempty"`
	Reason         ChangeReason `json:"reason"`
	InvalidateKeys []string     `json:"invalidate_keys"`
	Required       bool         `json:"required"`
	IssuedAt       time.Time    `json:"issued_at"`
}

// PlatformWide reports whether the request concerns every viewer of the
// platform rather than one member.
func (r RecomputeRequest) PlatformWide() bool {
	return r.MemberID == "" && r.UserID == ""
}

type Delta struct {
	NewlyVisible []content.Item `json:"newly_visible"`
	NewlyHidden  []content.Item `json:"newly_hidden"`
}

func (d Delta) Empty() bool {
	return len(d.NewlyVisible) == 0 && len(d.NewlyHidden) == 0
}
