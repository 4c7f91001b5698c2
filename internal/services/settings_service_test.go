package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsClock struct{ now time.Time }

func (c *settingsClock) Now() time.Time { return c.now }

func newSettingsFixture(rows []models.SystemSetting) (*SettingsService, *mockSettingRepo, *mockAuditRepo, *settingsClock) {
	repo := &mockSettingRepo{
		mockAll: func(ctx context.Context) ([]models.SystemSetting, error) { return rows, nil },
	}
	audit := &mockAuditRepo{}
	clk := &settingsClock{now: fixedNow}
	tx := &mockTransactor{repos: &repository.Repositories{Setting: repo, Audit: audit}}
	return NewSettingsService(repo, tx, NewAuditService(), time.Minute, clk.Now), repo, audit, clk
}

func TestSettingsService_LoadsOverridesOnDefaults(t *testing.T) {
	svc, _, _, _ := newSettingsFixture([]models.SystemSetting{
		{Key: "default_interest_rate", Value: "15.5"},
		{Key: "max_loan_term_months", Value: "24"},
		{Key: "company_name", Value: "Bayanihan Credit"},
		{Key: "unknown_key", Value: "ignored"},
	})

	got := svc.Get(context.Background())
	assert.Equal(t, 15.5, got.DefaultInterestRate)
	assert.Equal(t, 24, got.MaxLoanTermMonths)
	assert.Equal(t, "Bayanihan Credit", got.CompanyName)
	assert.Equal(t, 5000.0, got.MinimumLoanAmount)
}

func TestSettingsService_IgnoresMalformedValues(t *testing.T) {
	svc, _, _, _ := newSettingsFixture([]models.SystemSetting{
		{Key: "minimum_loan_amount", Value: "five thousand"},
		{Key: "max_loan_term_months", Value: "12.5"},
	})

	got := svc.Get(context.Background())
	assert.Equal(t, DefaultSettings().MinimumLoanAmount, got.MinimumLoanAmount)
	assert.Equal(t, DefaultSettings().MaxLoanTermMonths, got.MaxLoanTermMonths)
}

func TestSettingsService_CachesUntilTTL(t *testing.T) {
	svc, repo, _, clk := newSettingsFixture(nil)
	ctx := context.Background()

	svc.Get(ctx)
	svc.Get(ctx)
	assert.Equal(t, 1, repo.allCalls)

	clk.now = clk.now.Add(59 * time.Second)
	svc.Get(ctx)
	assert.Equal(t, 1, repo.allCalls)

	clk.now = clk.now.Add(2 * time.Second)
	svc.Get(ctx)
	assert.Equal(t, 2, repo.allCalls)
}

func TestSettingsService_FallsBack(t *testing.T) {
	svc, repo, _, clk := newSettingsFixture([]models.SystemSetting{{Key: "company_name", Value: "Cached Co"}})
	ctx := context.Background()

	assert.Equal(t, "Cached Co", svc.Get(ctx).CompanyName)

	repo.mockAll = func(ctx context.Context) ([]models.SystemSetting, error) {
		return nil, errors.New("connection refused")
	}
	clk.now = clk.now.Add(time.Hour)
	assert.Equal(t, "Cached Co", svc.Get(ctx).CompanyName, "stale value survives a failed reload")

	svc.Invalidate()
	assert.Equal(t, DefaultSettings(), svc.Get(ctx), "defaults when nothing is cached")
}

func TestSettingsService_Update(t *testing.T) {
	svc, repo, audit, _ := newSettingsFixture(nil)
	ctx := context.Background()
	var written []models.SystemSetting
	repo.mockUpsert = func(ctx context.Context, rows []models.SystemSetting) error {
		written = rows
		return nil
	}

	svc.Get(ctx)
	next := DefaultSettings()
	next.DefaultInterestRate = 10
	next.CompanyName = "New Name"

	got, err := svc.Update(ctx, next, adminActor())
	require.NoError(t, err)
	assert.Equal(t, next, got)
	assert.Len(t, written, len(settingFields))
	for _, row := range written {
		if row.Key == "default_interest_rate" {
			assert.Equal(t, "10", row.Value)
		}
	}

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, models.EntitySystemSetting, entry.EntityType)
	assert.Equal(t, "global", entry.EntityID)
	var snapshot struct {
		From Settings `json:"from"`
		To   Settings `json:"to"`
	}
	require.NoError(t, json.Unmarshal([]byte(entry.Changes), &snapshot))
	assert.Equal(t, 12.0, snapshot.From.DefaultInterestRate)
	assert.Equal(t, 10.0, snapshot.To.DefaultInterestRate)

	before := repo.allCalls
	svc.Get(ctx)
	assert.Equal(t, before+1, repo.allCalls, "update invalidates the cache")
}

func TestSettingsService_UpdateRejections(t *testing.T) {
	svc, _, audit, _ := newSettingsFixture(nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, DefaultSettings(), processorActor())
	assert.True(t, errors.Is(err, ErrForbidden))

	bad := DefaultSettings()
	bad.MaximumLoanAmount = 100
	_, err = svc.Update(ctx, bad, adminActor())
	assert.EqualError(t, err, "Maximum loan amount must not be below the minimum")

	bad = DefaultSettings()
	bad.DefaultInterestRate = 120
	_, err = svc.Update(ctx, bad, adminActor())
	assert.True(t, errors.Is(err, ErrValidation))

	assert.Empty(t, audit.entries)
}
