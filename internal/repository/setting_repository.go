package repository

import (
	"context"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	All(ctx context.Context) ([]models.SystemSetting, error)
	Upsert(ctx context.Context, settings []models.SystemSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) All(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := r.db.WithContext(ctx).Order("key").Find(&settings).Error
	return settings, err
}

func (r *settingRepository) Upsert(ctx context.Context, settings []models.SystemSetting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&settings).Error
}
