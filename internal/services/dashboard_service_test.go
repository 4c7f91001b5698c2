package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDashboardRepo struct {
	repository.DashboardRepository
	counts   map[string]int64
	totals   *repository.ReceiptTotals
	apps     []models.LoanApplication
	receipts []models.Receipt
	err      error
}

func (m *mockDashboardRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return m.counts, m.err
}

func (m *mockDashboardRepo) ReceiptTotals(ctx context.Context) (*repository.ReceiptTotals, error) {
	return m.totals, nil
}

func (m *mockDashboardRepo) RecentApplications(ctx context.Context, limit int) ([]models.LoanApplication, error) {
	return m.apps, nil
}

func (m *mockDashboardRepo) RecentReceipts(ctx context.Context, limit int) ([]models.Receipt, error) {
	return m.receipts, nil
}

func TestDashboardService_Stats(t *testing.T) {
	repo := &mockDashboardRepo{
		counts: map[string]int64{
			models.ApplicationStatusDraft:       3,
			models.ApplicationStatusSubmitted:   2,
			models.ApplicationStatusUnderReview: 0,
			models.ApplicationStatusApproved:    4,
			models.ApplicationStatusRejected:    1,
		},
		totals:   &repository.ReceiptTotals{Count: 6, Amount: 41250.5},
		apps:     []models.LoanApplication{{ID: "a1", ApplicationNumber: "LN-2026-00010"}},
		receipts: []models.Receipt{{ID: "r1", ReceiptNumber: "OR-2026-00006"}},
	}

	stats, err := NewDashboardService(repo).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalApplications)
	assert.Equal(t, int64(4), stats.ApprovedApplications)
	assert.Equal(t, int64(6), stats.TotalReceipts)
	assert.Equal(t, 41250.5, stats.TotalReceiptAmount)
	require.Len(t, stats.RecentApplications, 1)
	assert.Equal(t, "LN-2026-00010", stats.RecentApplications[0].ApplicationNumber)
	require.Len(t, stats.RecentReceipts, 1)
}

func TestDashboardService_StatsFailsWhenAQueryFails(t *testing.T) {
	repo := &mockDashboardRepo{err: errors.New("connection refused"), totals: &repository.ReceiptTotals{}}

	_, err := NewDashboardService(repo).Stats(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	assert.Error(t, NewDashboardService(repo).PublishStatusCounts(context.Background()))
}
