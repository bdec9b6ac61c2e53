package db

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return d
}

func TestMigrateRecordsVersions(t *testing.T) {
	d := openTestDB(t, t.Name())

	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	version, err := SchemaVersion(d)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected version %d got %d", len(migrations), version)
	}

	// Re-running applies nothing and records nothing.
	if err := Migrate(d); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
	var count int64
	d.Model(&SchemaMigration{}).Count(&count)
	if count != int64(len(migrations)) {
		t.Fatalf("expected %d migration records got %d", len(migrations), count)
	}

	for _, m := range []any{
		&models.User{}, &models.Character{}, &models.Boss{}, &models.BossLevel{},
		&models.Weapon{}, &models.JourneyEntry{}, &models.Build{}, &models.WeaponSlot{},
	} {
		if !d.Migrator().HasTable(m) {
			t.Fatalf("missing table for %T", m)
		}
	}
}

func TestMigratePartialResume(t *testing.T) {
	d := openTestDB(t, t.Name())

	// Simulate a store stopped at version 1.
	if err := d.AutoMigrate(&SchemaMigration{}); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := migrations[0].run(d); err != nil {
		t.Fatalf("run step 1: %v", err)
	}
	if err := d.Create(&SchemaMigration{Version: 1, Name: migrations[0].name}).Error; err != nil {
		t.Fatalf("record step 1: %v", err)
	}

	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	version, err := SchemaVersion(d)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected version %d got %d", len(migrations), version)
	}
	var count int64
	d.Model(&SchemaMigration{}).Where("version = ?", 1).Count(&count)
	if count != 1 {
		t.Fatalf("step 1 re-recorded: %d rows", count)
	}
}
