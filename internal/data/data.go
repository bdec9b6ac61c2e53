// Package data bundles the reference catalogs shipped with the binary.
package data

import "embed"

// FS holds the CSV catalogs read once at first startup.
//
//go:embed *.csv
var FS embed.FS

// Catalog file names.
const (
	BossesCSV     = "bosses.csv"
	BossLevelsCSV = "boss_levels.csv"
	WeaponsCSV    = "weapons.csv"
)
