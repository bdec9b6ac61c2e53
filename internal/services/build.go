package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maculado/companion/internal/models"
)

// BuildService owns attribute builds and weapon-slot loadouts.
type BuildService struct {
	db *gorm.DB
}

func NewBuildService(db *gorm.DB) *BuildService {
	return &BuildService{db: db}
}

// EnsureBuild inserts an all-zero build row for the character iff absent.
func (s *BuildService) EnsureBuild(ctx context.Context, character string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Build{}).
		Where("character = ?", character).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&models.Build{Character: character}).Error
}

// GetBuild returns the character's build, ErrNotFound when absent.
func (s *BuildService) GetBuild(ctx context.Context, character string) (*models.Build, error) {
	var b models.Build
	err := s.db.WithContext(ctx).Where("character = ?", character).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// SaveBuild replaces the eight attributes. Values outside [0,99] are rejected.
func (s *BuildService) SaveBuild(ctx context.Context, character string, stats [8]int) error {
	for i, v := range stats {
		if v < 0 || v > 99 {
			return fmt.Errorf("%s out of range [0,99]: %d", models.StatNames[i], v)
		}
	}
	b := models.Build{Character: character}
	b.SetStats(stats)
	return s.db.WithContext(ctx).Model(&models.Build{}).
		Where("character = ?", character).
		Updates(map[string]any{
			"vigor": b.Vigor, "mind": b.Mind, "endurance": b.Endurance,
			"strength": b.Strength, "dexterity": b.Dexterity,
			"intelligence": b.Intelligence, "faith": b.Faith, "arcane": b.Arcane,
		}).Error
}

// SaveWeaponSlots upserts loadout cells by (character, stat, slot), so saving
// a slot again overwrites its item and value instead of duplicating the row.
func (s *BuildService) SaveWeaponSlots(ctx context.Context, character string, slots []models.WeaponSlot) error {
	if len(slots) == 0 {
		return nil
	}
	for i := range slots {
		slots[i].Character = character
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "character"}, {Name: "stat"}, {Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"item", "value"}),
	}).Create(&slots).Error
}

// LoadWeaponSlots returns the character's loadout ordered by stat, then slot.
func (s *BuildService) LoadWeaponSlots(ctx context.Context, character string) ([]models.WeaponSlot, error) {
	var out []models.WeaponSlot
	err := s.db.WithContext(ctx).
		Where("character = ?", character).
		Order("stat, slot").
		Find(&out).Error
	return out, err
}

// ListWeapons returns the weapon catalog, optionally filtered by type.
func (s *BuildService) ListWeapons(ctx context.Context, weaponType string) ([]models.Weapon, error) {
	q := s.db.WithContext(ctx).Order("name")
	if weaponType != "" {
		q = q.Where("type = ?", weaponType)
	}
	var out []models.Weapon
	err := q.Find(&out).Error
	return out, err
}

// WeaponTypes returns the distinct weapon types for the catalog filter.
func (s *BuildService) WeaponTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := s.db.WithContext(ctx).Model(&models.Weapon{}).
		Distinct("type").Order("type").Pluck("type", &types).Error
	return types, err
}

// FindWeapon resolves a weapon by exact name, ErrNotFound when absent.
func (s *BuildService) FindWeapon(ctx context.Context, name string) (*models.Weapon, error) {
	var w models.Weapon
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}
