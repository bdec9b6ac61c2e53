package services

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

// AllInRegion selects every boss of a region in MarkDefeated.
const AllInRegion = "ALL_IN_REGION"

// JourneyService maintains per-character journey projections of the boss
// catalog: it seeds them once, refreshes their descriptive fields from the
// catalog, records defeats and derives progress metrics.
type JourneyService struct {
	db *gorm.DB
}

func NewJourneyService(db *gorm.DB) *JourneyService {
	return &JourneyService{db: db}
}

// CatalogKey is the identity used for every catalog/journey/level join:
// trim both parts, concatenate region then name, lowercase. The separator-free
// concatenation can collide ("A"+"BC" vs "AB"+"C"); that matching is part of
// the recorded data's contract and must not change without rekeying journeys.
func CatalogKey(region, name string) string {
	return strings.ToLower(strings.TrimSpace(region) + strings.TrimSpace(name))
}

var levelPrefixRe = regexp.MustCompile(`^(\d+)`)

// levelOrder extracts the leading numeric run of a level label. Labels
// without one report ok=false and sort after all others.
func levelOrder(label string) (int, bool) {
	m := levelPrefixRe.FindString(strings.TrimSpace(label))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// EnsureJourney seeds a character's journey from the current catalog, one
// Alive row per boss, with the level resolved by CatalogKey. It is a no-op
// when the character already has any journey row: deletions are never
// re-seeded. Creates the journey table when the store predates it.
func (s *JourneyService) EnsureJourney(ctx context.Context, character string) error {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(&models.JourneyEntry{}) {
		if err := db.AutoMigrate(&models.JourneyEntry{}); err != nil {
			return err
		}
	}

	var count int64
	if err := db.Model(&models.JourneyEntry{}).
		Where("character = ?", character).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var bosses []models.Boss
	if err := db.Find(&bosses).Error; err != nil {
		return err
	}
	if len(bosses) == 0 {
		return nil
	}
	levels, err := s.levelByKey(ctx)
	if err != nil {
		return err
	}

	entries := make([]models.JourneyEntry, 0, len(bosses))
	for _, b := range bosses {
		entries = append(entries, models.JourneyEntry{
			Character:       character,
			Name:            b.Name,
			Region:          b.Region,
			Location:        b.Location,
			Runes:           b.Runes,
			Loot:            b.Loot,
			Stance:          b.Stance,
			PreferredDamage: b.PreferredDamage,
			Resistance:      b.Resistance,
			Level:           levels[CatalogKey(b.Region, b.Name)],
			Status:          models.StatusAlive,
		})
	}
	return db.CreateInBatches(entries, 200).Error
}

// Synchronize refreshes the descriptive fields of every journey row (all
// characters) from the current catalog, joined on CatalogKey. A row whose key
// no longer matches any boss gets its descriptive fields emptied; its id,
// character, level and status are never touched.
func (s *JourneyService) Synchronize(ctx context.Context) error {
	db := s.db.WithContext(ctx)

	var entries []models.JourneyEntry
	if err := db.Find(&entries).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var bosses []models.Boss
	if err := db.Find(&bosses).Error; err != nil {
		return err
	}
	byKey := make(map[string]models.Boss, len(bosses))
	for _, b := range bosses {
		byKey[CatalogKey(b.Region, b.Name)] = b
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			b := byKey[CatalogKey(e.Region, e.Name)] // zero value on join miss
			err := tx.Model(&models.JourneyEntry{}).
				Where("id = ?", e.ID).
				Updates(map[string]any{
					"name":             b.Name,
					"region":           b.Region,
					"location":         b.Location,
					"runes":            b.Runes,
					"loot":             b.Loot,
					"stance":           b.Stance,
					"preferred_damage": b.PreferredDamage,
					"resistance":       b.Resistance,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkDefeated records a kill. bossName AllInRegion targets every journey row
// of the character in the region; otherwise a single boss is targeted. The
// write runs in one transaction, so a bulk defeat applies fully or not at
// all. There is no operation back to Alive.
func (s *JourneyService) MarkDefeated(ctx context.Context, character, region, bossName string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.JourneyEntry{}).
			Where("character = ? AND region = ?", character, region)
		if bossName != AllInRegion {
			q = q.Where("name = ?", bossName)
		}
		return q.Update("status", models.StatusDefeated).Error
	})
}

// LevelBucket is the per-level slice of a character's progress.
type LevelBucket struct {
	Level       string  `json:"level"`
	Alive       int     `json:"alive"`
	Defeated    int     `json:"defeated"`
	Total       int     `json:"total"`
	AlivePct    float64 `json:"alive_pct"`
	DefeatedPct float64 `json:"defeated_pct"`
}

// RegionBucket is the per-region slice of a character's progress.
type RegionBucket struct {
	Region      string  `json:"region"`
	Alive       int     `json:"alive"`
	Defeated    int     `json:"defeated"`
	Total       int     `json:"total"`
	AlivePct    float64 `json:"alive_pct"`
	DefeatedPct float64 `json:"defeated_pct"`
}

// Progress is the derived, read-only view the journey page renders.
type Progress struct {
	TotalDistinctBosses int            `json:"total_distinct_bosses"`
	Alive               int            `json:"alive"`
	Defeated            int            `json:"defeated"`
	Levels              []LevelBucket  `json:"levels"`
	Regions             []RegionBucket `json:"regions"`
}

// ComputeProgress derives the character's metrics: the system-wide distinct
// boss count, alive/defeated totals, a per-level breakdown sorted by level
// prefix descending, and a per-region breakdown sorted by the region's level
// ascending.
func (s *JourneyService) ComputeProgress(ctx context.Context, character string) (Progress, error) {
	var p Progress
	db := s.db.WithContext(ctx)

	total, err := s.TotalDistinctBosses(ctx)
	if err != nil {
		return p, err
	}
	p.TotalDistinctBosses = total

	var entries []models.JourneyEntry
	if err := db.Where("character = ?", character).Find(&entries).Error; err != nil {
		return p, err
	}

	levelIdx := map[string]int{}
	regionIdx := map[string]int{}
	for _, e := range entries {
		if e.Status == models.StatusDefeated {
			p.Defeated++
		} else {
			p.Alive++
		}

		li, ok := levelIdx[e.Level]
		if !ok {
			li = len(p.Levels)
			levelIdx[e.Level] = li
			p.Levels = append(p.Levels, LevelBucket{Level: e.Level})
		}
		ri, ok := regionIdx[e.Region]
		if !ok {
			ri = len(p.Regions)
			regionIdx[e.Region] = ri
			p.Regions = append(p.Regions, RegionBucket{Region: e.Region})
		}
		if e.Status == models.StatusDefeated {
			p.Levels[li].Defeated++
			p.Regions[ri].Defeated++
		} else {
			p.Levels[li].Alive++
			p.Regions[ri].Alive++
		}
	}

	for i := range p.Levels {
		b := &p.Levels[i]
		b.Total = b.Alive + b.Defeated
		if b.Total > 0 {
			b.AlivePct = float64(b.Alive) / float64(b.Total) * 100
			b.DefeatedPct = float64(b.Defeated) / float64(b.Total) * 100
		}
	}
	for i := range p.Regions {
		b := &p.Regions[i]
		b.Total = b.Alive + b.Defeated
		if b.Total > 0 {
			b.AlivePct = float64(b.Alive) / float64(b.Total) * 100
			b.DefeatedPct = float64(b.Defeated) / float64(b.Total) * 100
		}
	}

	sort.SliceStable(p.Levels, func(i, j int) bool {
		oi, oki := levelOrder(p.Levels[i].Level)
		oj, okj := levelOrder(p.Levels[j].Level)
		if oki != okj {
			return oki // unparseable labels last
		}
		return oi > oj
	})

	regionLevels, err := s.regionLevels(ctx)
	if err != nil {
		return p, err
	}
	sort.SliceStable(p.Regions, func(i, j int) bool {
		oi, oki := regionLevels[p.Regions[i].Region]
		oj, okj := regionLevels[p.Regions[j].Region]
		if oki != okj {
			return oki
		}
		return oi < oj
	})

	return p, nil
}

// AliveEntries returns the character's surviving bosses in display order:
// level prefix ascending (unknown levels last), runes ascending within a level.
func (s *JourneyService) AliveEntries(ctx context.Context, character string) ([]models.JourneyEntry, error) {
	var entries []models.JourneyEntry
	err := s.db.WithContext(ctx).
		Where("character = ? AND status = ?", character, models.StatusAlive).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		oi, oki := levelOrder(entries[i].Level)
		oj, okj := levelOrder(entries[j].Level)
		if oki != okj {
			return oki
		}
		if oi != oj {
			return oi < oj
		}
		return entries[i].Runes < entries[j].Runes
	})
	return entries, nil
}

// RegionsInLevelOrder lists the regions present in the character's alive rows,
// ordered by each region's level ascending (unknown last).
func (s *JourneyService) RegionsInLevelOrder(ctx context.Context, character string) ([]string, error) {
	entries, err := s.AliveEntries(ctx, character)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var regions []string
	for _, e := range entries {
		if !seen[e.Region] {
			seen[e.Region] = true
			regions = append(regions, e.Region)
		}
	}
	regionLevels, err := s.regionLevels(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(regions, func(i, j int) bool {
		oi, oki := regionLevels[regions[i]]
		oj, okj := regionLevels[regions[j]]
		if oki != okj {
			return oki
		}
		return oi < oj
	})
	return regions, nil
}

// TotalDistinctBosses counts distinct catalog identities system-wide.
func (s *JourneyService) TotalDistinctBosses(ctx context.Context) (int, error) {
	var bosses []models.Boss
	if err := s.db.WithContext(ctx).Select("region", "name").Find(&bosses).Error; err != nil {
		return 0, err
	}
	keys := map[string]struct{}{}
	for _, b := range bosses {
		keys[CatalogKey(b.Region, b.Name)] = struct{}{}
	}
	return len(keys), nil
}

// levelByKey maps CatalogKey(region, name) to the level label.
func (s *JourneyService) levelByKey(ctx context.Context) (map[string]string, error) {
	var levels []models.BossLevel
	if err := s.db.WithContext(ctx).Find(&levels).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(levels))
	for _, l := range levels {
		out[CatalogKey(l.Region, l.Name)] = l.Level
	}
	return out, nil
}

// regionLevels maps a region to its numeric level order. Regions appearing
// with several labels keep the lowest; regions without a parseable label are
// absent, which the sorts treat as "after all others".
func (s *JourneyService) regionLevels(ctx context.Context) (map[string]int, error) {
	var levels []models.BossLevel
	if err := s.db.WithContext(ctx).Find(&levels).Error; err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, l := range levels {
		n, ok := levelOrder(l.Level)
		if !ok {
			continue
		}
		region := strings.TrimSpace(l.Region)
		if cur, exists := out[region]; !exists || n < cur {
			out[region] = n
		}
	}
	return out, nil
}
