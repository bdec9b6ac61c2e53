package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/maculado/companion/internal/models"
)

// CatalogService reads and edits the boss reference catalog. Edits change the
// catalog row only; journeys pick the change up on their next synchronization.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// CatalogSummary is the header block of the boss list page.
type CatalogSummary struct {
	Bosses  int   `json:"bosses"`
	Runes   int64 `json:"runes"`
	Regions int   `json:"regions"`
}

// Summary returns the catalog totals.
func (s *CatalogService) Summary(ctx context.Context) (CatalogSummary, error) {
	var sum CatalogSummary
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Boss{}).Count(&count).Error; err != nil {
		return sum, err
	}
	sum.Bosses = int(count)

	if err := db.Model(&models.Boss{}).Select("COALESCE(SUM(runes), 0)").Scan(&sum.Runes).Error; err != nil {
		return sum, err
	}

	var regions []string
	if err := db.Model(&models.Boss{}).Distinct("region").Pluck("region", &regions).Error; err != nil {
		return sum, err
	}
	sum.Regions = len(regions)
	return sum, nil
}

// ListBosses returns catalog rows, filtered by a case-insensitive name
// substring and/or an exact region when given.
func (s *CatalogService) ListBosses(ctx context.Context, nameQuery, region string) ([]models.Boss, error) {
	q := s.db.WithContext(ctx).Order("region, name")
	if nameQuery = strings.TrimSpace(nameQuery); nameQuery != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameQuery)+"%")
	}
	if region != "" {
		q = q.Where("region = ?", region)
	}
	var out []models.Boss
	err := q.Find(&out).Error
	return out, err
}

// Regions returns the distinct catalog regions.
func (s *CatalogService) Regions(ctx context.Context) ([]string, error) {
	var regions []string
	err := s.db.WithContext(ctx).Model(&models.Boss{}).
		Distinct("region").Order("region").Pluck("region", &regions).Error
	return regions, err
}

// GetBoss fetches one catalog row.
func (s *CatalogService) GetBoss(ctx context.Context, id uint) (*models.Boss, error) {
	var b models.Boss
	err := s.db.WithContext(ctx).First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateBoss overwrites a catalog row's fields. No cascade: journeys keep
// their copy until the next Synchronize pass re-joins them by key.
func (s *CatalogService) UpdateBoss(ctx context.Context, id uint, b models.Boss) error {
	res := s.db.WithContext(ctx).Model(&models.Boss{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":             strings.TrimSpace(b.Name),
			"region":           strings.TrimSpace(b.Region),
			"location":         strings.TrimSpace(b.Location),
			"runes":            b.Runes,
			"loot":             strings.TrimSpace(b.Loot),
			"stance":           strings.TrimSpace(b.Stance),
			"preferred_damage": strings.TrimSpace(b.PreferredDamage),
			"resistance":       strings.TrimSpace(b.Resistance),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
