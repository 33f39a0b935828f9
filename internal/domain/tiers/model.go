package tiers

import (
	"errors"
	"sort"
	"strings"
	"time"

	"creator-platform/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNegativePrice  = errors.New("tier price must not be negative")
	ErrDuplicatePrice = errors.New("another tier of this platform already has this price")
	ErrDuplicateName  = errors.New("another tier of this platform already has this name")
)

type Tier struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	PlatformID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_tiers_platform_name,priority:1;uniqueIndex:idx_tiers_platform_price,priority:1" json:"platform_id" validate:"required"`

	Name         string   `gorm:"not null;uniqueIndex:idx_tiers_platform_name,priority:2" json:"name" validate:"required,max=80"`
	MonthlyPrice float64  `gorm:"not null;default:0;uniqueIndex:idx_tiers_platform_price,priority:2" json:"monthly_price" validate:"gte=0"`
	Benefits     []string `gorm:"serializer:json;type:jsonb" json:"benefits"`

	IsPopular bool `gorm:"not null;default:false" json:"is_popular"`
	IsPublic  bool `gorm:"not null" json:"is_public"`

	StripePriceID *string `gorm:"column:stripe_price_id" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tier) BeforeCreate(tx *gorm.DB) error {
	t.EnsureID()
	return nil
}

func (t *Tier) EnsureID() {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
}

func (t *Tier) Validate() error {
	if t.MonthlyPrice < 0 {
		return ErrNegativePrice
	}
	return validation.Struct(t)
}

// IsFree reports whether the tier costs nothing.
func (t Tier) IsFree() bool {
	return t.MonthlyPrice == 0
}

// SortByPrice orders tiers by monthly price ascending. Ties (which the
// store never allows) fall back to name for a deterministic order.
func SortByPrice(list []Tier) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].MonthlyPrice != list[j].MonthlyPrice {
			return list[i].MonthlyPrice < list[j].MonthlyPrice
		}
		return list[i].Name < list[j].Name
	})
}

// CheckOrder verifies that candidate keeps the platform's tiers in a strict
// total order by price and that its name is unique. existing may contain
// candidate itself (on update); it is skipped by ID.
func CheckOrder(existing []Tier, candidate Tier) error {
	name := strings.ToLower(strings.TrimSpace(candidate.Name))
	for _, t := range existing {
		if t.ID == candidate.ID {
			continue
		}
		if t.MonthlyPrice == candidate.MonthlyPrice {
			return ErrDuplicatePrice
		}
		if strings.ToLower(strings.TrimSpace(t.Name)) == name {
			return ErrDuplicateName
		}
	}
	return nil
}

// IDs returns the tier IDs in the order given.
func IDs(list []Tier) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

// Public filters out tiers hidden from non-owners.
func Public(list []Tier) []Tier {
	out := make([]Tier, 0, len(list))
	for _, t := range list {
		if t.IsPublic {
			out = append(out, t)
		}
	}
	return out
}
