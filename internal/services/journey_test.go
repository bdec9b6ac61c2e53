package services

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Character{},
		&models.Boss{}, &models.BossLevel{}, &models.Weapon{},
		&models.JourneyEntry{}, &models.Build{}, &models.WeaponSlot{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	bosses := []models.Boss{
		{Name: "Margit, the Fell Omen", Region: "Stormveil Castle", Location: "Castleward Tunnel", Runes: 12000, Loot: "Talisman Pouch"},
		{Name: "Godrick the Grafted", Region: "Stormveil Castle", Location: "Throne Room", Runes: 20000, Loot: "Godrick's Great Rune"},
		{Name: "Tree Sentinel", Region: "Limgrave", Location: "First Steps", Runes: 3200, Loot: "Golden Halberd"},
		{Name: "Red Wolf of Radagon", Region: "Raya Lucaria", Location: "Debate Parlor", Runes: 14000, Loot: "Memory Stone"},
	}
	if err := db.Create(&bosses).Error; err != nil {
		t.Fatalf("seed bosses: %v", err)
	}
	levels := []models.BossLevel{
		{Region: "Limgrave", Name: "Tree Sentinel", Level: "01 - Limgrave"},
		{Region: "Stormveil Castle", Name: "Margit, the Fell Omen", Level: "02 - Stormveil"},
		{Region: "Stormveil Castle", Name: "Godrick the Grafted", Level: "02 - Stormveil"},
		{Region: "Raya Lucaria", Name: "Red Wolf of Radagon", Level: "04 - Raya Lucaria"},
	}
	if err := db.Create(&levels).Error; err != nil {
		t.Fatalf("seed levels: %v", err)
	}
}

func TestCatalogKey(t *testing.T) {
	if got := CatalogKey("  Limgrave ", " Tree Sentinel "); got != "limgravetree sentinel" {
		t.Fatalf("unexpected key %q", got)
	}
	// Separator-free concatenation: different splits can share a key.
	if CatalogKey("AB", "C") != CatalogKey("A", "BC") {
		t.Fatal("expected concatenation collision to share a key")
	}
}

func TestEnsureJourneySeedsFromCatalog(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	var entries []models.JourneyEntry
	if err := db.Where("character = ?", "Astel").Find(&entries).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries got %d", len(entries))
	}
	for _, e := range entries {
		if e.Status != models.StatusAlive {
			t.Fatalf("entry %q seeded with status %q", e.Name, e.Status)
		}
		if e.Name == "Tree Sentinel" && e.Level != "01 - Limgrave" {
			t.Fatalf("level not resolved: %q", e.Level)
		}
	}
}

func TestEnsureJourneyIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	var count int64
	db.Model(&models.JourneyEntry{}).Where("character = ?", "Astel").Count(&count)
	if count != 4 {
		t.Fatalf("expected 4 entries after double ensure got %d", count)
	}

	// Deleted rows stay deleted: a journey with any surviving row is not re-seeded.
	db.Where("character = ? AND name = ?", "Astel", "Tree Sentinel").Delete(&models.JourneyEntry{})
	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure after delete: %v", err)
	}
	db.Model(&models.JourneyEntry{}).Where("character = ?", "Astel").Count(&count)
	if count != 3 {
		t.Fatalf("expected 3 entries got %d", count)
	}
}

func TestMarkDefeatedSingleBoss(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	for _, c := range []string{"Astel", "Morgott"} {
		if err := svc.EnsureJourney(ctx, c); err != nil {
			t.Fatalf("ensure %s: %v", c, err)
		}
	}
	if err := svc.MarkDefeated(ctx, "Astel", "Stormveil Castle", "Margit, the Fell Omen"); err != nil {
		t.Fatalf("defeat: %v", err)
	}

	var e models.JourneyEntry
	db.Where("character = ? AND name = ?", "Astel", "Margit, the Fell Omen").First(&e)
	if e.Status != models.StatusDefeated {
		t.Fatalf("expected Defeated got %q", e.Status)
	}
	// Same boss on the other character stays alive.
	e = models.JourneyEntry{}
	db.Where("character = ? AND name = ?", "Morgott", "Margit, the Fell Omen").First(&e)
	if e.Status != models.StatusAlive {
		t.Fatalf("defeat leaked to another character: %q", e.Status)
	}
	// Siblings in the region stay alive.
	e = models.JourneyEntry{}
	db.Where("character = ? AND name = ?", "Astel", "Godrick the Grafted").First(&e)
	if e.Status != models.StatusAlive {
		t.Fatalf("defeat leaked within region: %q", e.Status)
	}
}

func TestMarkDefeatedAllInRegion(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.MarkDefeated(ctx, "Astel", "Stormveil Castle", AllInRegion); err != nil {
		t.Fatalf("defeat region: %v", err)
	}

	var defeated, alive int64
	db.Model(&models.JourneyEntry{}).
		Where("character = ? AND status = ?", "Astel", models.StatusDefeated).Count(&defeated)
	db.Model(&models.JourneyEntry{}).
		Where("character = ? AND status = ?", "Astel", models.StatusAlive).Count(&alive)
	if defeated != 2 || alive != 2 {
		t.Fatalf("expected 2 defeated / 2 alive got %d / %d", defeated, alive)
	}
}

func TestSynchronizeRefreshesDescriptiveFields(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.MarkDefeated(ctx, "Astel", "Limgrave", "Tree Sentinel"); err != nil {
		t.Fatalf("defeat: %v", err)
	}

	// Catalog edit that keeps the identity: same region and name.
	db.Model(&models.Boss{}).
		Where("name = ?", "Tree Sentinel").
		Updates(map[string]any{"location": "Gatefront", "runes": 9999})

	if err := svc.Synchronize(ctx); err != nil {
		t.Fatalf("synchronize: %v", err)
	}

	var e models.JourneyEntry
	db.Where("character = ? AND name = ?", "Astel", "Tree Sentinel").First(&e)
	if e.Location != "Gatefront" || e.Runes != 9999 {
		t.Fatalf("descriptive fields not refreshed: %q %d", e.Location, e.Runes)
	}
	if e.Status != models.StatusDefeated {
		t.Fatalf("synchronize touched status: %q", e.Status)
	}
	if e.Level != "01 - Limgrave" {
		t.Fatalf("synchronize touched level: %q", e.Level)
	}
}

func TestSynchronizeJoinMissEmptiesFields(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	// Renaming changes the identity, so existing rows no longer match.
	db.Model(&models.Boss{}).
		Where("name = ?", "Red Wolf of Radagon").
		Update("name", "Red Wolf of the Champion")

	if err := svc.Synchronize(ctx); err != nil {
		t.Fatalf("synchronize: %v", err)
	}

	var e models.JourneyEntry
	db.Where("character = ? AND level = ?", "Astel", "04 - Raya Lucaria").First(&e)
	if e.Name != "" || e.Region != "" || e.Runes != 0 {
		t.Fatalf("join miss kept stale fields: %q %q %d", e.Name, e.Region, e.Runes)
	}
	if e.Character != "Astel" || e.Status != models.StatusAlive {
		t.Fatalf("join miss touched identity: %q %q", e.Character, e.Status)
	}
}

func TestComputeProgress(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.MarkDefeated(ctx, "Astel", "Stormveil Castle", "Margit, the Fell Omen"); err != nil {
		t.Fatalf("defeat: %v", err)
	}

	p, err := svc.ComputeProgress(ctx, "Astel")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.TotalDistinctBosses != 4 {
		t.Fatalf("expected 4 distinct bosses got %d", p.TotalDistinctBosses)
	}
	if p.Alive != 3 || p.Defeated != 1 {
		t.Fatalf("expected 3 alive / 1 defeated got %d / %d", p.Alive, p.Defeated)
	}
	if p.Alive+p.Defeated != 4 {
		t.Fatalf("alive+defeated != entries: %d", p.Alive+p.Defeated)
	}

	// Level breakdown is sorted by level prefix descending.
	if len(p.Levels) != 3 {
		t.Fatalf("expected 3 level buckets got %d", len(p.Levels))
	}
	if p.Levels[0].Level != "04 - Raya Lucaria" || p.Levels[2].Level != "01 - Limgrave" {
		t.Fatalf("level order wrong: %v", p.Levels)
	}
	var storm LevelBucket
	for _, b := range p.Levels {
		if b.Level == "02 - Stormveil" {
			storm = b
		}
	}
	if storm.Total != 2 || storm.Defeated != 1 || storm.DefeatedPct != 50 {
		t.Fatalf("stormveil bucket wrong: %+v", storm)
	}

	// Region breakdown is sorted by the region's level ascending.
	if len(p.Regions) != 3 {
		t.Fatalf("expected 3 region buckets got %d", len(p.Regions))
	}
	if p.Regions[0].Region != "Limgrave" || p.Regions[2].Region != "Raya Lucaria" {
		t.Fatalf("region order wrong: %v", p.Regions)
	}
}

func TestAliveEntriesOrder(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// An entry whose level label has no numeric prefix sorts last.
	db.Create(&models.JourneyEntry{
		Character: "Astel", Name: "Nameless King", Region: "Unknown",
		Level: "???", Status: models.StatusAlive, Runes: 1,
	})

	alive, err := svc.AliveEntries(ctx, "Astel")
	if err != nil {
		t.Fatalf("alive: %v", err)
	}
	if len(alive) != 5 {
		t.Fatalf("expected 5 alive got %d", len(alive))
	}
	if alive[0].Name != "Tree Sentinel" {
		t.Fatalf("expected lowest level first got %q", alive[0].Name)
	}
	// Within a level, lower rune reward comes first.
	if alive[1].Name != "Margit, the Fell Omen" || alive[2].Name != "Godrick the Grafted" {
		t.Fatalf("runes tiebreak wrong: %q then %q", alive[1].Name, alive[2].Name)
	}
	if alive[4].Name != "Nameless King" {
		t.Fatalf("unparseable level not last: %q", alive[4].Name)
	}
}

func TestRegionsInLevelOrder(t *testing.T) {
	db := setupTestDB(t, t.Name())
	seedCatalog(t, db)
	svc := NewJourneyService(db)
	ctx := context.Background()

	if err := svc.EnsureJourney(ctx, "Astel"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := svc.MarkDefeated(ctx, "Astel", "Limgrave", AllInRegion); err != nil {
		t.Fatalf("defeat: %v", err)
	}

	regions, err := svc.RegionsInLevelOrder(ctx, "Astel")
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	// Only regions with alive rows appear, ordered by level.
	want := []string{"Stormveil Castle", "Raya Lucaria"}
	if len(regions) != len(want) {
		t.Fatalf("expected %v got %v", want, regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Fatalf("expected %v got %v", want, regions)
		}
	}
}
