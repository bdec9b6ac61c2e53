package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

// RosterService owns a user's character list. Every mutation carries the
// owner's login in the WHERE clause; a wrong owner silently matches zero rows
// rather than failing, mirroring how sharing a character id across accounts
// must never leak writes.
type RosterService struct {
	db *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db}
}

// CreateCharacter registers a character for an owner.
func (s *RosterService) CreateCharacter(ctx context.Context, playerName, name, ownerLogin string) error {
	c := models.Character{
		OwnerLogin: ownerLogin,
		PlayerName: strings.TrimSpace(playerName),
		Name:       strings.TrimSpace(name),
	}
	return s.db.WithContext(ctx).Create(&c).Error
}

// ListCharacters returns the owner's characters in creation order.
func (s *RosterService) ListCharacters(ctx context.Context, ownerLogin string) ([]models.Character, error) {
	var out []models.Character
	err := s.db.WithContext(ctx).
		Where("owner_login = ?", ownerLogin).
		Order("id").
		Find(&out).Error
	return out, err
}

// RenameCharacter updates the player and character names of a row the owner holds.
func (s *RosterService) RenameCharacter(ctx context.Context, id uint, playerName, name, ownerLogin string) error {
	return s.db.WithContext(ctx).Model(&models.Character{}).
		Where("id = ? AND owner_login = ?", id, ownerLogin).
		Updates(map[string]any{
			"player_name": strings.TrimSpace(playerName),
			"name":        strings.TrimSpace(name),
		}).Error
}

// DeleteCharacter removes a row the owner holds.
func (s *RosterService) DeleteCharacter(ctx context.Context, id uint, ownerLogin string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND owner_login = ?", id, ownerLogin).
		Delete(&models.Character{}).Error
}

// CharacterNames returns the distinct character names the owner holds, the
// selector feeding the build and journey pages.
func (s *RosterService) CharacterNames(ctx context.Context, ownerLogin string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Character{}).
		Distinct("name").
		Where("owner_login = ?", ownerLogin).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

// OwnsCharacter reports whether the owner has a character with this name.
// Guards the journey and build pages against crafted form submissions.
func (s *RosterService) OwnsCharacter(ctx context.Context, ownerLogin, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Character{}).
		Where("owner_login = ? AND name = ?", ownerLogin, name).
		Count(&count).Error
	return count > 0, err
}
