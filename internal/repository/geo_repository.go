package repository

import (
	"context"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
)

// GeoRepository reads the static Region > Province > City > Barangay hierarchy
type GeoRepository interface {
	BarangayExists(ctx context.Context, id string) (bool, error)
}

type geoRepository struct {
	db *gorm.DB
}

func NewGeoRepository(db *gorm.DB) GeoRepository {
	return &geoRepository{db: db}
}

func (r *geoRepository) BarangayExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Barangay{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
