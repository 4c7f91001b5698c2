package services

import (
	"context"
	"fmt"

	"github.com/cvmfinance/orcr-api/internal/metrics"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

// DashboardStats is the landing page summary
type DashboardStats struct {
	TotalApplications       int64                        `json:"totalApplications"`
	DraftApplications       int64                        `json:"draftApplications"`
	SubmittedApplications   int64                        `json:"submittedApplications"`
	UnderReviewApplications int64                        `json:"underReviewApplications"`
	ApprovedApplications    int64                        `json:"approvedApplications"`
	RejectedApplications    int64                        `json:"rejectedApplications"`
	TotalReceipts           int64                        `json:"totalReceipts"`
	TotalReceiptAmount      float64                      `json:"totalReceiptAmount"`
	RecentApplications      []models.ApplicationResponse `json:"recentApplications"`
	RecentReceipts          []models.ReceiptResponse     `json:"recentReceipts"`
}

type DashboardService struct {
	repo repository.DashboardRepository
}

func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats gathers counts, non-voided receipt totals and the latest activity
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		counts   map[string]int64
		totals   *repository.ReceiptTotals
		apps     []models.LoanApplication
		receipts []models.Receipt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.repo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.repo.ReceiptTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		apps, err = s.repo.RecentApplications(gctx, recentLimit)
		return err
	})
	g.Go(func() (err error) {
		receipts, err = s.repo.RecentReceipts(gctx, recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats := &DashboardStats{
		DraftApplications:       counts[models.ApplicationStatusDraft],
		SubmittedApplications:   counts[models.ApplicationStatusSubmitted],
		UnderReviewApplications: counts[models.ApplicationStatusUnderReview],
		ApprovedApplications:    counts[models.ApplicationStatusApproved],
		RejectedApplications:    counts[models.ApplicationStatusRejected],
		TotalReceipts:           totals.Count,
		TotalReceiptAmount:      totals.Amount,
		RecentApplications:      make([]models.ApplicationResponse, 0, len(apps)),
		RecentReceipts:          make([]models.ReceiptResponse, 0, len(receipts)),
	}
	for _, n := range counts {
		stats.TotalApplications += n
	}
	for i := range apps {
		stats.RecentApplications = append(stats.RecentApplications, apps[i].ToResponse())
	}
	for i := range receipts {
		stats.RecentReceipts = append(stats.RecentReceipts, receipts[i].ToResponse())
	}
	return stats, nil
}

// PublishStatusCounts refreshes the per-status application gauge
func (s *DashboardService) PublishStatusCounts(ctx context.Context) error {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count applications by status: %w", err)
	}
	metrics.SetApplicationsByStatus(counts)
	return nil
}
