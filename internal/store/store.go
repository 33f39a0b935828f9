// Package store is the Membership Store: persistence for platforms, tiers,
// members and content. The access layer only reads from it; every write
// goes through the service package.
package store

import (
	"context"

	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"
)

// PlatformStore persists platforms. Platforms are never deleted.
type PlatformStore interface {
	// CreatePlatform inserts p and seed in one transaction.
	CreatePlatform(ctx context.Context, p *platforms.Platform, seed []tiers.Tier) ([]tiers.Tier, error)
	GetPlatform(ctx context.Context, id string) (*platforms.Platform, error)
	ListPlatformsByOwner(ctx context.Context, ownerID string) ([]platforms.Platform, error)
	UpdatePlatform(ctx context.Context, p *platforms.Platform) error
}

// TierStore persists subscription tiers.
type TierStore interface {
	// GetTiers returns the platform's tiers ordered by price ascending.
	GetTiers(ctx context.Context, platformID string) ([]tiers.Tier, error)
	GetTier(ctx context.Context, id string) (*tiers.Tier, error)
	CreateTier(ctx context.Context, t *tiers.Tier) error
	UpdateTier(ctx context.Context, t *tiers.Tier) error
	// SeedTiers inserts seed atomically unless the platform already has
	// tiers, in which case the existing ones are returned and created is
	// false.
	SeedTiers(ctx context.Context, platformID string, seed []tiers.Tier) (list []tiers.Tier, created bool, err error)
}

// MemberStore persists memberships.
type MemberStore interface {
	GetMember(ctx context.Context, platformID, userID string) (*members.Member, error)
	GetMemberByID(ctx context.Context, id string) (*members.Member, error)
	GetMemberBySubscription(ctx context.Context, subscriptionID string) (*members.Member, error)
	ListMembers(ctx context.Context, platformID string) ([]members.Member, error)
	// CreateMember fails with Conflict when the (platform, user) pair exists.
	CreateMember(ctx context.Context, m *members.Member) error
	// UpdateMemberTier fails with NotFound when the member or tier is
	// missing and Conflict when the tier belongs to another platform.
	UpdateMemberTier(ctx context.Context, memberID string, tierID *string) (*members.Member, error)
	UpdateMemberStatus(ctx context.Context, memberID string, status members.Status) (*members.Member, error)
	// ApplySubscription writes a billing event to the member in one
	// transaction, with the tier rules of UpdateMemberTier. When the event
	// is older than the last one applied nothing is written and the stored
	// member is returned with applied=false.
	ApplySubscription(ctx context.Context, memberID string, u members.SubscriptionUpdate) (m *members.Member, applied bool, err error)
}

// ContentStore persists content items.
type ContentStore interface {
	// GetPublishedContent returns published items, most recently created first.
	GetPublishedContent(ctx context.Context, platformID string) ([]content.Item, error)
	// ListContent returns every item regardless of status, newest first.
	ListContent(ctx context.Context, platformID string) ([]content.Item, error)
	GetContent(ctx context.Context, id string) (*content.Item, error)
	CreateContent(ctx context.Context, it *content.Item) error
	UpdateContent(ctx context.Context, it *content.Item) error
	DeleteContent(ctx context.Context, id string) error
}

type Store interface {
	PlatformStore
	TierStore
	MemberStore
	ContentStore
}
