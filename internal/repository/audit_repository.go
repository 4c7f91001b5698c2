package repository

import (
	"context"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
)

// AuditRepository appends audit entries; entries are never updated or deleted
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListForEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) ListForEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
