package platforms

import (
	"time"

	"creator-platform/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
)

type Branding struct {
	PrimaryColor   string `gorm:"column:primary_color" json:"primary_color" validate:"hexcolor_or_empty"`
	SecondaryColor string `gorm:"column:secondary_color" json:"secondary_color" validate:"hexcolor_or_empty"`
	LogoURL        string `gorm:"column:logo_url" json:"logo_url,omitempty" validate:"omitempty,url"`
}

type Platform struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"not null;index" json:"owner_id" validate:"required"`
	Name    string `gorm:"not null" json:"name" validate:"required,max=120"`

	Branding Branding `gorm:"embedded" json:"branding"`

	Subdomain    string  `gorm:"not null;uniqueIndex:idx_platforms_subdomain" json:"subdomain" validate:"required,subdomain"`
	CustomDomain *string `gorm:"uniqueIndex:idx_platforms_custom_domain" json:"custom_domain,omitempty" validate:"omitempty,fqdn"`

	Status     Status     `gorm:"type:varchar(16);not null;default:'draft'" json:"status" validate:"oneof=draft active"`
	DeployedAt *time.Time `json:"deployed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Platform) BeforeCreate(tx *gorm.DB) error {
	p.EnsureID()
	return nil
}

// EnsureID assigns a fresh uuid when the record has none yet.
func (p *Platform) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
}

func (p *Platform) Validate() error {
	return validation.Struct(p)
}

// IsOwner reports whether userID owns the platform.
func (p *Platform) IsOwner(userID string) bool {
	return p != nil && userID != "" && p.OwnerID == userID
}
