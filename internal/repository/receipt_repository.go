package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptRepository defines the interface for receipt data access
type ReceiptRepository interface {
	FindByID(ctx context.Context, id string) (*models.Receipt, error)
	List(ctx context.Context, query *ListQuery) ([]models.Receipt, int64, error)
	// ListAll returns every receipt matching query filters, ignoring pagination
	ListAll(ctx context.Context, query *ListQuery) ([]models.Receipt, error)
	NextReceiptNumber(ctx context.Context, prefix string, year int) (string, error)
	Create(ctx context.Context, receipt *models.Receipt) error
	// Void marks the receipt voided only if it is not voided yet
	Void(ctx context.Context, id, reason string, at time.Time) (bool, error)
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) FindByID(ctx context.Context, id string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.WithContext(ctx).
		Preload("LoanApplication").
		Preload("IssuedBy").
		First(&receipt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) filtered(ctx context.Context, query *ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Receipt{})

	if query.Filters["include_voided"] != "true" {
		db = db.Where("voided_at IS NULL")
	}

	if t := query.Filters["type"]; t != "" && t != "ALL" {
		db = db.Where("receipt_type = ?", t)
	}

	if query.Search != "" {
		search := likePattern(query.Search)
		db = db.Where("LOWER(receipt_number) LIKE ? OR LOWER(payer_name) LIKE ?", search, search)
	}
	return db
}

func (r *receiptRepository) List(ctx context.Context, query *ListQuery) ([]models.Receipt, int64, error) {
	var receipts []models.Receipt
	var total int64

	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.filtered(ctx, query).
		Preload("LoanApplication").
		Preload("IssuedBy").
		Order("issued_at DESC").
		Offset(query.offset()).
		Limit(query.PerPage).
		Find(&receipts).Error
	return receipts, total, err
}

func (r *receiptRepository) ListAll(ctx context.Context, query *ListQuery) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.filtered(ctx, query).
		Preload("LoanApplication").
		Preload("IssuedBy").
		Order("issued_at DESC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) NextReceiptNumber(ctx context.Context, prefix string, year int) (string, error) {
	return nextNumber(ctx, r.db, "receipts", "receipt_number", fmt.Sprintf("%s-%d-", prefix, year))
}

func (r *receiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(receipt).Error)
}

func (r *receiptRepository) Void(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Where("id = ? AND voided_at IS NULL", id).
		Updates(map[string]interface{}{
			"voided_at":     at,
			"voided_reason": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
