package repository

import (
	"context"

	"github.com/cvmfinance/orcr-api/internal/models"
	"gorm.io/gorm"
)

// ReceiptTotals aggregates non-voided receipts
type ReceiptTotals struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type DashboardRepository interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
	ReceiptTotals(ctx context.Context) (*ReceiptTotals, error)
	RecentApplications(ctx context.Context, limit int) ([]models.LoanApplication, error)
	RecentReceipts(ctx context.Context, limit int) ([]models.Receipt, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.ApplicationStatuses))
	for _, s := range models.ApplicationStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *dashboardRepository) ReceiptTotals(ctx context.Context) (*ReceiptTotals, error) {
	var totals ReceiptTotals
	err := r.db.WithContext(ctx).
		Model(&models.Receipt{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("voided_at IS NULL").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *dashboardRepository) RecentApplications(ctx context.Context, limit int) ([]models.LoanApplication, error) {
	var apps []models.LoanApplication
	err := r.db.WithContext(ctx).
		Preload("Barangay.City.Province.Region").
		Order("created_at DESC").
		Limit(limit).
		Find(&apps).Error
	return apps, err
}

// RecentReceipts includes voided receipts; the response carries their void state.
func (r *dashboardRepository) RecentReceipts(ctx context.Context, limit int) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.WithContext(ctx).
		Preload("LoanApplication").
		Preload("IssuedBy").
		Order("issued_at DESC").
		Limit(limit).
		Find(&receipts).Error
	return receipts, err
}
