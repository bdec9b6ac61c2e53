package models

// Stat names, in the fixed order used by builds, weapon requirements and the
// loadout table.
var StatNames = []string{
	"Vigor", "Mind", "Endurance", "Strength",
	"Dexterity", "Intelligence", "Faith", "Arcane",
}

// Build holds a character's attribute allocation. One row per character name,
// created all-zero the first time the build page selects the character.
type Build struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Character    string `gorm:"uniqueIndex;size:255;not null" json:"character"`
	Vigor        int    `gorm:"default:0" json:"vigor"`
	Mind         int    `gorm:"default:0" json:"mind"`
	Endurance    int    `gorm:"default:0" json:"endurance"`
	Strength     int    `gorm:"default:0" json:"strength"`
	Dexterity    int    `gorm:"default:0" json:"dexterity"`
	Intelligence int    `gorm:"default:0" json:"intelligence"`
	Faith        int    `gorm:"default:0" json:"faith"`
	Arcane       int    `gorm:"default:0" json:"arcane"`
}

// Stats returns the eight attributes in StatNames order.
func (b Build) Stats() [8]int {
	return [8]int{
		b.Vigor, b.Mind, b.Endurance, b.Strength,
		b.Dexterity, b.Intelligence, b.Faith, b.Arcane,
	}
}

// SetStats assigns the eight attributes in StatNames order.
func (b *Build) SetStats(s [8]int) {
	b.Vigor, b.Mind, b.Endurance, b.Strength = s[0], s[1], s[2], s[3]
	b.Dexterity, b.Intelligence, b.Faith, b.Arcane = s[4], s[5], s[6], s[7]
}

// WeaponSlot is one cell of a character's loadout grid: the value a given
// stat needs for the weapon placed in a given slot. Upserted by the composite
// key, so re-saving a slot overwrites it.
type WeaponSlot struct {
	Character string `gorm:"primaryKey;size:255" json:"character"`
	Stat      string `gorm:"primaryKey;size:50" json:"stat"`
	Slot      int    `gorm:"primaryKey" json:"slot"`
	Item      string `gorm:"size:255" json:"item"`
	Value     int    `json:"value"`
}

// Weapon is a reference-catalog row with the stat requirements a build must
// meet to wield it.
type Weapon struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	Type         string `gorm:"size:100" json:"type"`
	Vigor        int    `json:"vigor"`
	Mind         int    `json:"mind"`
	Endurance    int    `json:"endurance"`
	Strength     int    `json:"strength"`
	Dexterity    int    `json:"dexterity"`
	Intelligence int    `json:"intelligence"`
	Faith        int    `json:"faith"`
	Arcane       int    `json:"arcane"`
}

// Requirement returns the weapon's requirement for a stat name, zero for
// unknown stats.
func (w Weapon) Requirement(stat string) int {
	switch stat {
	case "Vigor":
		return w.Vigor
	case "Mind":
		return w.Mind
	case "Endurance":
		return w.Endurance
	case "Strength":
		return w.Strength
	case "Dexterity":
		return w.Dexterity
	case "Intelligence":
		return w.Intelligence
	case "Faith":
		return w.Faith
	case "Arcane":
		return w.Arcane
	}
	return 0
}
