package repository

import (
	"context"
	"fmt"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationRepository defines the interface for loan application data access
type ApplicationRepository interface {
	FindByID(ctx context.Context, id string) (*models.LoanApplication, error)
	FindWithDetails(ctx context.Context, id string) (*models.LoanApplication, error)
	List(ctx context.Context, query *ListQuery) ([]models.LoanApplication, int64, error)
	NextApplicationNumber(ctx context.Context, year int) (string, error)
	Create(ctx context.Context, app *models.LoanApplication) error
	// Replace overwrites every editable column, only if the stored status still equals expectedStatus
	Replace(ctx context.Context, app *models.LoanApplication, expectedStatus string) (bool, error)
	// Transition applies changes only if the stored status still equals fromStatus
	Transition(ctx context.Context, id, fromStatus string, changes map[string]interface{}) (bool, error)
	// DeleteIfStatus hard-deletes the row only if the stored status equals status
	DeleteIfStatus(ctx context.Context, id, status string) (bool, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindWithDetails(ctx context.Context, id string) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Barangay.City.Province.Region").
		Preload("PermanentBarangay.City.Province.Region").
		Preload("ProcessedBy").
		Preload("ApprovedBy").
		Preload("Receipts", func(db *gorm.DB) *gorm.DB {
			return db.Order("issued_at DESC")
		}).
		First(&app, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, query *ListQuery) ([]models.LoanApplication, int64, error) {
	var apps []models.LoanApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LoanApplication{})

	if status := query.Filters["status"]; status != "" && status != "ALL" {
		db = db.Where("status = ?", status)
	}

	if query.Search != "" {
		search := likePattern(query.Search)
		db = db.Where("LOWER(application_number) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Barangay.City").
		Preload("ProcessedBy").
		Order("created_at DESC").
		Offset(query.offset()).
		Limit(query.PerPage).
		Find(&apps).Error
	return apps, total, err
}

func (r *applicationRepository) NextApplicationNumber(ctx context.Context, year int) (string, error) {
	return nextNumber(ctx, r.db, "loan_applications", "application_number", fmt.Sprintf("LN-%d-", year))
}

func (r *applicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error)
}

func (r *applicationRepository) Replace(ctx context.Context, app *models.LoanApplication, expectedStatus string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(app).
		Where("status = ?", expectedStatus).
		Select("*").
		Omit("ID", "ApplicationNumber", "CreatedAt", clause.Associations).
		Updates(app)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *applicationRepository) Transition(ctx context.Context, id, fromStatus string, changes map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(changes)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *applicationRepository) DeleteIfStatus(ctx context.Context, id, status string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, status).
		Delete(&models.LoanApplication{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
