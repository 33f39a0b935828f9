package database

import (
	"fmt"
	"time"

	"creator-platform/internal/domain/content"
	"creator-platform/internal/domain/members"
	"creator-platform/internal/domain/platforms"
	"creator-platform/internal/domain/tiers"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres and migrates the membership schema. Driver
// errors are translated so that unique violations surface as
// gorm.ErrDuplicatedKey.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// gen_random_uuid() for ad-hoc inserts; the app sets IDs itself
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("connected and migrated", zap.String("driver", "postgres"))
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&platforms.Platform{},
		&tiers.Tier{},
		&members.Member{},
		&content.Item{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
