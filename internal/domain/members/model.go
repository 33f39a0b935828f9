package members

import (
	"time"

	"creator-platform/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// Member is the association between a user account and a platform.
// One row per (platform, user).
type Member struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	PlatformID string `gorm:"type:uuid;not null;uniqueIndex:idx_members_platform_user,priority:1" json:"platform_id" validate:"required"`
	UserID     string `gorm:"not null;uniqueIndex:idx_members_platform_user,priority:2;index" json:"user_id" validate:"required"`

	// nil = free / no paid tier
	TierID *string `gorm:"type:uuid;index" json:"tier_id"`
	Status Status  `gorm:"type:varchar(16);not null;default:'active'" json:"status" validate:"oneof=active inactive pending"`

	// Stripe subscription that drives TierID, when billed through Stripe.
	SubscriptionID *string `gorm:"column:subscription_id;uniqueIndex:idx_members_subscription_id" json:"-"`
	// creation time of the last billing event applied to this row
	SubscriptionSyncedAt *time.Time `gorm:"column:subscription_synced_at" json:"-"`

	JoinedAt     time.Time `gorm:"not null" json:"joined_at"`
	LastActiveAt time.Time `gorm:"not null" json:"last_active_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	m.EnsureID()
	return nil
}

func (m *Member) EnsureID() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
}

func (m *Member) Validate() error {
	return validation.Struct(m)
}

// New builds an active member with no paid tier.
func New(platformID, userID string, now time.Time) *Member {
	return &Member{
		PlatformID:   platformID,
		UserID:       userID,
		Status:       StatusActive,
		JoinedAt:     now,
		LastActiveAt: now,
	}
}

func (m *Member) IsActive() bool {
	return m != nil && m.Status == StatusActive
}

// SameTier compares two nullable tier references.
func SameTier(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
