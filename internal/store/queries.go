package store

import (
	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/tiers"

	"gorm.io/gorm"
)

func platformTiersQuery(db *gorm.DB, platformID string) *gorm.DB {
	return db.Model(&tiers.Tier{}).
		Where("platform_id = ?", platformID).
		Order("monthly_price ASC")
}

func platformMembersQuery(db *gorm.DB, platformID string) *gorm.DB {
	return db.Model(&members.Member{}).
		Where("platform_id = ?", platformID).
		Order("joined_at ASC")
}

func publishedContentQuery(db *gorm.DB, platformID string) *gorm.DB {
	return db.Model(&content.Item{}).
		Where("platform_id = ? AND status = ?", platformID, string(content.StatusPublished)).
		Order("created_at DESC")
}

func allContentQuery(db *gorm.DB, platformID string) *gorm.DB {
	return db.Model(&content.Item{}).
		Where("platform_id = ?", platformID).
		Order("created_at DESC")
}
