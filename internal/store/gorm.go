package store

import (
	"context"
	"time"

	"creator-platform/internal/apperr"
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the postgres-backed Membership Store.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// ---- platforms ----

func (s *GormStore) CreatePlatform(ctx context.Context, p *platforms.Platform, seed []tiers.Tier) ([]tiers.Tier, error) {
	if err := p.Validate(); err != nil {
		return nil, apperr.Invalid("CreatePlatform", err)
	}
	p.EnsureID()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if len(seed) == 0 {
			return nil
		}
		for i := range seed {
			seed[i].PlatformID = p.ID
		}
		return tx.Create(&seed).Error
	})
	if err != nil {
		return nil, apperr.FromStore("CreatePlatform", err)
	}

	tiers.SortByPrice(seed)
	return seed, nil
}

func (s *GormStore) GetPlatform(ctx context.Context, id string) (*platforms.Platform, error) {
	var p platforms.Platform
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, apperr.FromStore("GetPlatform", err)
	}
	if err := p.Validate(); err != nil {
		return nil, malformed("GetPlatform", err)
	}
	return &p, nil
}

func (s *GormStore) ListPlatformsByOwner(ctx context.Context, ownerID string) ([]platforms.Platform, error) {
	var list []platforms.Platform
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, apperr.FromStore("ListPlatformsByOwner", err)
	}
	return list, nil
}

func (s *GormStore) UpdatePlatform(ctx context.Context, p *platforms.Platform) error {
	if err := p.Validate(); err != nil {
		return apperr.Invalid("UpdatePlatform", err)
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return apperr.FromStore("UpdatePlatform", err)
	}
	return nil
}

// ---- tiers ----

func (s *GormStore) GetTiers(ctx context.Context, platformID string) ([]tiers.Tier, error) {
	var list []tiers.Tier
	if err := platformTiersQuery(s.db.WithContext(ctx), platformID).Find(&list).Error; err != nil {
		return nil, apperr.FromStore("GetTiers", err)
	}
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return nil, malformed("GetTiers", err)
		}
	}
	return list, nil
}

func (s *GormStore) GetTier(ctx context.Context, id string) (*tiers.Tier, error) {
	var t tiers.Tier
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, apperr.FromStore("GetTier", err)
	}
	if err := t.Validate(); err != nil {
		return nil, malformed("GetTier", err)
	}
	return &t, nil
}

func (s *GormStore) CreateTier(ctx context.Context, t *tiers.Tier) error {
	if err := t.Validate(); err != nil {
		return apperr.Invalid("CreateTier", err)
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return apperr.FromStore("CreateTier", err)
	}
	return nil
}

func (s *GormStore) UpdateTier(ctx context.Context, t *tiers.Tier) error {
	if err := t.Validate(); err != nil {
		return apperr.Invalid("UpdateTier", err)
	}
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return apperr.FromStore("UpdateTier", err)
	}
	return nil
}

func (s *GormStore) SeedTiers(ctx context.Context, platformID string, seed []tiers.Tier) ([]tiers.Tier, bool, error) {
	var (
		out     []tiers.Tier
		created bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&tiers.Tier{}).Where("platform_id = ?", platformID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return platformTiersQuery(tx, platformID).Find(&out).Error
		}

		for i := range seed {
			seed[i].PlatformID = platformID
		}
		if err := tx.Create(&seed).Error; err != nil {
			return err
		}
		out = seed
		created = true
		return nil
	})
	if err != nil {
		return nil, false, apperr.FromStore("SeedTiers", err)
	}

	tiers.SortByPrice(out)
	return out, created, nil
}

// ---- members ----

func (s *GormStore) GetMember(ctx context.Context, platformID, userID string) (*members.Member, error) {
	var m members.Member
	if err := s.db.WithContext(ctx).
		Where("platform_id = ? AND user_id = ?", platformID, userID).
		First(&m).Error; err != nil {
		return nil, apperr.FromStore("GetMember", err)
	}
	if err := m.Validate(); err != nil {
		return nil, malformed("GetMember", err)
	}
	return &m, nil
}

func (s *GormStore) GetMemberByID(ctx context.Context, id string) (*members.Member, error) {
	var m members.Member
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, apperr.FromStore("GetMemberByID", err)
	}
	if err := m.Validate(); err != nil {
		return nil, malformed("GetMemberByID", err)
	}
	return &m, nil
}

func (s *GormStore) GetMemberBySubscription(ctx context.Context, subscriptionID string) (*members.Member, error) {
	var m members.Member
	if err := s.db.WithContext(ctx).First(&m, "subscription_id = ?", subscriptionID).Error; err != nil {
		return nil, apperr.FromStore("GetMemberBySubscription", err)
	}
	return &m, nil
}

func (s *GormStore) ListMembers(ctx context.Context, platformID string) ([]members.Member, error) {
	var list []members.Member
	if err := platformMembersQuery(s.db.WithContext(ctx), platformID).Find(&list).Error; err != nil {
		return nil, apperr.FromStore("ListMembers", err)
	}
	return list, nil
}

func (s *GormStore) CreateMember(ctx context.Context, m *members.Member) error {
	if err := m.Validate(); err != nil {
		return apperr.Invalid("CreateMember", err)
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperr.FromStore("CreateMember", err)
	}
	return nil
}

func (s *GormStore) UpdateMemberTier(ctx context.Context, memberID string, tierID *string) (*members.Member, error) {
	var m members.Member

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", memberID).Error; err != nil {
			return err
		}

		if err := checkTierPlatform(tx, "UpdateMemberTier", m.PlatformID, tierID); err != nil {
			return err
		}

		now := s.now()
		if err := tx.Model(&members.Member{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"tier_id":        tierID,
				"last_active_at": now,
			}).Error; err != nil {
			return err
		}
		m.TierID = tierID
		m.LastActiveAt = now
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore("UpdateMemberTier", err)
	}
	return &m, nil
}

func (s *GormStore) UpdateMemberStatus(ctx context.Context, memberID string, status members.Status) (*members.Member, error) {
	var m members.Member

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", memberID).Error; err != nil {
			return err
		}
		m.Status = status
		if err := m.Validate(); err != nil {
			return apperr.Invalid("UpdateMemberStatus", err)
		}
		return tx.Model(&members.Member{}).
			Where("id = ?", m.ID).
			Update("status", string(status)).Error
	})
	if err != nil {
		return nil, apperr.FromStore("UpdateMemberStatus", err)
	}
	return &m, nil
}

func (s *GormStore) ApplySubscription(ctx context.Context, memberID string, u members.SubscriptionUpdate) (*members.Member, bool, error) {
	var m members.Member
	applied := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", memberID).Error; err != nil {
			return err
		}
		if !m.Accepts(u) {
			return nil
		}
		if err := checkTierPlatform(tx, "ApplySubscription", m.PlatformID, u.TierID); err != nil {
			return err
		}

		m.ApplySubscription(u, s.now())
		if err := m.Validate(); err != nil {
			return apperr.Invalid("ApplySubscription", err)
		}
		if err := tx.Model(&members.Member{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"subscription_id":        m.SubscriptionID,
				"tier_id":                m.TierID,
				"status":                 string(m.Status),
				"subscription_synced_at": m.SubscriptionSyncedAt,
				"last_active_at":         m.LastActiveAt,
			}).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, false, apperr.FromStore("ApplySubscription", err)
	}
	return &m, applied, nil
}

// checkTierPlatform requires tierID, when set, to exist on platformID.
func checkTierPlatform(tx *gorm.DB, op, platformID string, tierID *string) error {
	if tierID == nil {
		return nil
	}
	var t tiers.Tier
	if err := tx.First(&t, "id = ?", *tierID).Error; err != nil {
		return err
	}
	if t.PlatformID != platformID {
		return apperr.Conflict(op, "tier belongs to another platform", nil)
	}
	return nil
}

// ---- content ----

func (s *GormStore) GetPublishedContent(ctx context.Context, platformID string) ([]content.Item, error) {
	var items []content.Item
	if err := publishedContentQuery(s.db.WithContext(ctx), platformID).Find(&items).Error; err != nil {
		return nil, apperr.FromStore("GetPublishedContent", err)
	}
	return items, nil
}

func (s *GormStore) ListContent(ctx context.Context, platformID string) ([]content.Item, error) {
	var items []content.Item
	if err := allContentQuery(s.db.WithContext(ctx), platformID).Find(&items).Error; err != nil {
		return nil, apperr.FromStore("ListContent", err)
	}
	return items, nil
}

func (s *GormStore) GetContent(ctx context.Context, id string) (*content.Item, error) {
	var it content.Item
	if err := s.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, apperr.FromStore("GetContent", err)
	}
	if err := it.Validate(); err != nil {
		return nil, malformed("GetContent", err)
	}
	return &it, nil
}

func (s *GormStore) CreateContent(ctx context.Context, it *content.Item) error {
	if err := it.Validate(); err != nil {
		return apperr.Invalid("CreateContent", err)
	}
	if err := s.db.WithContext(ctx).Create(it).Error; err != nil {
		return apperr.FromStore("CreateContent", err)
	}
	return nil
}

func (s *GormStore) UpdateContent(ctx context.Context, it *content.Item) error {
	if err := it.Validate(); err != nil {
		return apperr.Invalid("UpdateContent", err)
	}
	if err := s.db.WithContext(ctx).Save(it).Error; err != nil {
		return apperr.FromStore("UpdateContent", err)
	}
	return nil
}

func (s *GormStore) DeleteContent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&content.Item{}, "id = ?", id)
	if res.Error != nil {
		return apperr.FromStore("DeleteContent", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("DeleteContent", "content not found")
	}
	return nil
}

// malformed reports a stored record that fails boundary validation.
func malformed(op string, err error) error {
	return apperr.Conflict(op, "malformed record", err)
}
