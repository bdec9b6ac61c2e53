package db

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/maculado/companion/internal/data"
	"github.com/maculado/companion/internal/models"
)

// Seed loads the bundled reference catalogs. Each catalog seeds only when its
// table is empty, so admin edits and re-deploys never clobber existing rows.
func Seed(db *gorm.DB) error {
	if err := seedBosses(db); err != nil {
		return fmt.Errorf("seed bosses: %w", err)
	}
	if err := seedBossLevels(db); err != nil {
		return fmt.Errorf("seed boss levels: %w", err)
	}
	if err := seedWeapons(db); err != nil {
		return fmt.Errorf("seed weapons: %w", err)
	}
	return nil
}

func tableEmpty(db *gorm.DB, model any) (bool, error) {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func readCatalog(name string) ([][]string, error) {
	f, err := data.FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no data rows", name)
	}
	return rows[1:], nil // skip header
}

// parseRunes tolerates thousands separators and blanks, like the source data.
func parseRunes(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func seedBosses(db *gorm.DB) error {
	empty, err := tableEmpty(db, &models.Boss{})
	if err != nil || !empty {
		return err
	}
	rows, err := readCatalog(data.BossesCSV)
	if err != nil {
		return err
	}
	bosses := make([]models.Boss, 0, len(rows))
	for _, rec := range rows {
		if len(rec) < 8 {
			continue
		}
		bosses = append(bosses, models.Boss{
			Name:            strings.TrimSpace(rec[0]),
			Region:          strings.TrimSpace(rec[1]),
			Location:        strings.TrimSpace(rec[2]),
			Runes:           parseRunes(rec[3]),
			Loot:            strings.TrimSpace(rec[4]),
			Stance:          strings.TrimSpace(rec[5]),
			PreferredDamage: strings.TrimSpace(rec[6]),
			Resistance:      strings.TrimSpace(rec[7]),
		})
	}
	return db.CreateInBatches(bosses, 100).Error
}

func seedBossLevels(db *gorm.DB) error {
	empty, err := tableEmpty(db, &models.BossLevel{})
	if err != nil || !empty {
		return err
	}
	rows, err := readCatalog(data.BossLevelsCSV)
	if err != nil {
		return err
	}
	levels := make([]models.BossLevel, 0, len(rows))
	for _, rec := range rows {
		if len(rec) < 3 {
			continue
		}
		levels = append(levels, models.BossLevel{
			Region: strings.TrimSpace(rec[0]),
			Name:   strings.TrimSpace(rec[1]),
			Level:  strings.TrimSpace(rec[2]),
		})
	}
	return db.CreateInBatches(levels, 100).Error
}

func seedWeapons(db *gorm.DB) error {
	empty, err := tableEmpty(db, &models.Weapon{})
	if err != nil || !empty {
		return err
	}
	rows, err := readCatalog(data.WeaponsCSV)
	if err != nil {
		return err
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(s))
		return n
	}
	weapons := make([]models.Weapon, 0, len(rows))
	for _, rec := range rows {
		if len(rec) < 10 {
			continue
		}
		weapons = append(weapons, models.Weapon{
			Name:         strings.TrimSpace(rec[0]),
			Type:         strings.TrimSpace(rec[1]),
			Vigor:        atoi(rec[2]),
			Mind:         atoi(rec[3]),
			Endurance:    atoi(rec[4]),
			Strength:     atoi(rec[5]),
			Dexterity:    atoi(rec[6]),
			Intelligence: atoi(rec[7]),
			Faith:        atoi(rec[8]),
			Arcane:       atoi(rec[9]),
		})
	}
	return db.CreateInBatches(weapons, 100).Error
}
