package models

import "time"

// Character is a player-created character owned by a user account.
// Nothing prevents two characters of the same owner sharing a name; journeys
// and builds are keyed by character name, so duplicates share progress.
type Character struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OwnerLogin string    `gorm:"index;size:255;not null" json:"owner_login"`
	PlayerName string    `gorm:"size:255;not null" json:"player_name"`
	Name       string    `gorm:"size:255;not null" json:"name"`
}

// Boss is a reference-catalog row. Seeded once from the bundled CSV, editable
// afterwards only through the admin form; journeys copy from it, never the
// other way around.
type Boss struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:255" json:"name"`
	Region          string `gorm:"size:255" json:"region"`
	Location        string `gorm:"size:255" json:"location"`
	Runes           int    `json:"runes"`
	Loot            string `gorm:"size:255" json:"loot"`
	Stance          string `gorm:"size:100" json:"stance"`
	PreferredDamage string `gorm:"size:100" json:"preferred_damage"`
	Resistance      string `gorm:"size:100" json:"resistance"`
}

// BossLevel maps a (region, name) pair to a recommended level label such as
// "05 - Liurnia of the Lakes". The leading digits drive ordering.
type BossLevel struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Region string `gorm:"size:255" json:"region"`
	Name   string `gorm:"size:255" json:"name"`
	Level  string `gorm:"size:100" json:"level"`
}

// Journey status values. There is no Defeated -> Alive transition.
const (
	StatusAlive    = "Alive"
	StatusDefeated = "Defeated"
)

// JourneyEntry is one character's copy of one catalog boss. Descriptive
// fields are refreshed from the catalog on every synchronization pass; ID,
// Character, Level and Status are owned by the journey.
type JourneyEntry struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Character       string `gorm:"index;size:255;not null" json:"character"`
	Name            string `gorm:"size:255" json:"name"`
	Region          string `gorm:"size:255" json:"region"`
	Location        string `gorm:"size:255" json:"location"`
	Runes           int    `json:"runes"`
	Loot            string `gorm:"size:255" json:"loot"`
	Stance          string `gorm:"size:100" json:"stance"`
	PreferredDamage string `gorm:"size:100" json:"preferred_damage"`
	Resistance      string `gorm:"size:100" json:"resistance"`
	Level           string `gorm:"size:100" json:"level"`
	Status          string `gorm:"size:50;not null" json:"status"`
}
