package content

import (
	"time"

	"creator-platform/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeArticle Type = "article"
	TypeVideo   Type = "video"
	TypeImage   Type = "image"
	TypeAudio   Type = "audio"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
)

type Item struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	PlatformID string `gorm:"type:uuid;not null;index:idx_content_platform_status_created,priority:1" json:"platform_id" validate:"required"`

	Title       string `gorm:"not null" json:"title" validate:"required,max=200"`
	Description string `gorm:"type:text" json:"description"`
	Type        Type   `gorm:"type:varchar(16);not null" json:"content_type" validate:"oneof=article video image audio"`

	// nil = visible to everyone, anonymous visitors included
	AccessTierID *string `gorm:"type:uuid;index" json:"access_tier"`

	Status       Status     `gorm:"type:varchar(16);not null;default:'draft';index:idx_content_platform_status_created,priority:2" json:"status" validate:"oneof=draft published scheduled"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`

	ThumbnailURL string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`

	CreatedAt time.Time `gorm:"index:idx_content_platform_status_created,priority:3,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name stable regardless of the Go type name.
func (Item) TableName() string {
	return "content_items"
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	i.EnsureID()
	return nil
}

func (i *Item) EnsureID() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
}

func (i *Item) Validate() error {
	return validation.Struct(i)
}

func (i Item) IsPublished() bool {
	return i.Status == StatusPublished
}

func (i Item) IsGated() bool {
	return i.AccessTierID != nil
}
