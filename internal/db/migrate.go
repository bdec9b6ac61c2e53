package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

// SchemaMigration records an applied migration step.
type SchemaMigration struct {
	Version   int `gorm:"primaryKey"`
	Name      string
	AppliedAt time.Time
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// migration is one versioned schema step. Steps must be idempotent; whether a
// step runs is decided by the recorded schema version, never by catching
// storage errors.
type migration struct {
	version int
	name    string
	run     func(*gorm.DB) error
}

var migrations = []migration{
	{1, "identity and roster", func(db *gorm.DB) error {
		return db.AutoMigrate(&models.User{}, &models.Character{})
	}},
	{2, "reference catalogs", func(db *gorm.DB) error {
		return db.AutoMigrate(&models.Boss{}, &models.BossLevel{}, &models.Weapon{})
	}},
	{3, "journeys", func(db *gorm.DB) error {
		return db.AutoMigrate(&models.JourneyEntry{})
	}},
	{4, "builds and loadouts", func(db *gorm.DB) error {
		return db.AutoMigrate(&models.Build{}, &models.WeaponSlot{})
	}},
}

// Migrate applies pending schema steps in order and records each one.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("migrate schema_migrations: %w", err)
	}
	var current int
	if err := db.Model(&SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&current).Error; err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.run(db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		rec := SchemaMigration{Version: m.version, Name: m.name, AppliedAt: time.Now()}
		if err := db.Create(&rec).Error; err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func SchemaVersion(db *gorm.DB) (int, error) {
	var current int
	err := db.Model(&SchemaMigration{}).Select("COALESCE(MAX(version), 0)").Scan(&current).Error
	return current, err
}
