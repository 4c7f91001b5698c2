package database

import (
	"context"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedGeography loads a small sample of the PSGC hierarchy. Rows are keyed by
// their PSGC code so the seed can be re-run safely.
func SeedGeography(ctx context.Context, db *gorm.DB) error {
	regions := []models.Region{
		{ID: "130000000", Code: "130000000", Name: "National Capital Region"},
		{ID: "040000000", Code: "040000000", Name: "CALABARZON"},
	}
	provinces := []models.Province{
		{ID: "137400000", Code: "137400000", Name: "NCR, Second District", RegionID: "130000000"},
		{ID: "042100000", Code: "042100000", Name: "Cavite", RegionID: "040000000"},
	}
	cities := []models.City{
		{ID: "137404000", Code: "137404000", Name: "Quezon City", ProvinceID: "137400000"},
		{ID: "042103000", Code: "042103000", Name: "Bacoor", ProvinceID: "042100000"},
	}
	barangays := []models.Barangay{
		{ID: "137404001", Code: "137404001", Name: "Alicia", CityID: "137404000"},
		{ID: "137404002", Code: "137404002", Name: "Amihan", CityID: "137404000"},
		{ID: "137404003", Code: "137404003", Name: "Apolonio Samson", CityID: "137404000"},
		{ID: "042103001", Code: "042103001", Name: "Alima", CityID: "042103000"},
		{ID: "042103002", Code: "042103002", Name: "Aniban I", CityID: "042103000"},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A chained *gorm.DB keeps its statement, so each table needs its own.
		for _, rows := range []interface{}{&regions, &provinces, &cities, &barangays} {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
