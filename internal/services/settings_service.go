package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

// Settings are the institution-wide lending parameters
type Settings struct {
	DefaultInterestRate          float64 `json:"defaultInterestRate"`
	MinimumLoanAmount            float64 `json:"minimumLoanAmount"`
	MaximumLoanAmount            float64 `json:"maximumLoanAmount"`
	MaxLoanTermMonths            int     `json:"maxLoanTermMonths"`
	ApplicationFee               float64 `json:"applicationFee"`
	ProcessingFeePercentage      float64 `json:"processingFeePercentage"`
	LatePaymentPenaltyPercentage float64 `json:"latePaymentPenaltyPercentage"`
	CompanyName                  string  `json:"companyName"`
	ContactEmail                 string  `json:"contactEmail"`
	ContactPhone                 string  `json:"contactPhone"`
}

// DefaultSettings is used until an administrator stores overrides
func DefaultSettings() Settings {
	return Settings{
		DefaultInterestRate:          12,
		MinimumLoanAmount:            5000,
		MaximumLoanAmount:            1000000,
		MaxLoanTermMonths:            36,
		ApplicationFee:               500,
		ProcessingFeePercentage:      2.5,
		LatePaymentPenaltyPercentage: 5,
		CompanyName:                  "Philippine Lending Corporation",
		ContactEmail:                 "support@lending.ph",
		ContactPhone:                 "+63-2-1234-5678",
	}
}

type settingField struct {
	key string
	get func(*Settings) string
	set func(*Settings, string) error
}

func floatField(key string, ptr func(*Settings) *float64) settingField {
	return settingField{
		key: key,
		get: func(s *Settings) string { return strconv.FormatFloat(*ptr(s), 'f', -1, 64) },
		set: func(s *Settings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			*ptr(s) = f
			return nil
		},
	}
}

func stringField(key string, ptr func(*Settings) *string) settingField {
	return settingField{
		key: key,
		get: func(s *Settings) string { return *ptr(s) },
		set: func(s *Settings, v string) error { *ptr(s) = v; return nil },
	}
}

var settingFields = []settingField{
	floatField("default_interest_rate", func(s *Settings) *float64 { return &s.DefaultInterestRate }),
	floatField("minimum_loan_amount", func(s *Settings) *float64 { return &s.MinimumLoanAmount }),
	floatField("maximum_loan_amount", func(s *Settings) *float64 { return &s.MaximumLoanAmount }),
	{
		key: "max_loan_term_months",
		get: func(s *Settings) string { return strconv.Itoa(s.MaxLoanTermMonths) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			s.MaxLoanTermMonths = n
			return nil
		},
	},
	floatField("application_fee", func(s *Settings) *float64 { return &s.ApplicationFee }),
	floatField("processing_fee_percentage", func(s *Settings) *float64 { return &s.ProcessingFeePercentage }),
	floatField("late_payment_penalty_percentage", func(s *Settings) *float64 { return &s.LatePaymentPenaltyPercentage }),
	stringField("company_name", func(s *Settings) *string { return &s.CompanyName }),
	stringField("contact_email", func(s *Settings) *string { return &s.ContactEmail }),
	stringField("contact_phone", func(s *Settings) *string { return &s.ContactPhone }),
}

// SettingsService serves settings from a TTL cache. A failed reload falls back
// to the last loaded value, and to defaults when nothing was ever loaded.
type SettingsService struct {
	repo  repository.SettingRepository
	tx    repository.Transactor
	audit *AuditService
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	cached   *Settings
	loadedAt time.Time
}

// NewSettingsService creates a settings cache. A nil now uses time.Now.
func NewSettingsService(repo repository.SettingRepository, tx repository.Transactor, audit *AuditService, ttl time.Duration, now func() time.Time) *SettingsService {
	if now == nil {
		now = time.Now
	}
	return &SettingsService{repo: repo, tx: tx, audit: audit, ttl: ttl, now: now}
}

// Get returns the current settings
func (s *SettingsService) Get(ctx context.Context) Settings {
	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.loadedAt) < s.ttl {
		current := *s.cached
		s.mu.Unlock()
		return current
	}
	s.mu.Unlock()

	rows, err := s.repo.All(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.cached != nil {
			logger.FromContext(ctx).Warn("settings reload failed, serving stale values", "error", err)
			return *s.cached
		}
		logger.FromContext(ctx).Warn("settings load failed, serving defaults", "error", err)
		return DefaultSettings()
	}

	loaded := fromRows(ctx, rows)
	s.cached = &loaded
	s.loadedAt = s.now()
	return loaded
}

// Invalidate drops the cached value so the next Get reloads
func (s *SettingsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Update stores every setting and records the change
func (s *SettingsService) Update(ctx context.Context, next Settings, actor Actor) (Settings, error) {
	if err := actor.require(auth.CapManageSettings); err != nil {
		return Settings{}, err
	}
	if err := next.validate(); err != nil {
		return Settings{}, err
	}

	previous := s.Get(ctx)
	now := s.now()
	rows := make([]models.SystemSetting, 0, len(settingFields))
	for _, f := range settingFields {
		rows = append(rows, models.SystemSetting{Key: f.key, Value: f.get(&next), UpdatedAt: now})
	}

	err := s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		if err := r.Setting.Upsert(ctx, rows); err != nil {
			return err
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntitySystemSetting, "global", models.AuditActionUpdate,
			Change{From: previous, To: next})
	})
	if err != nil {
		return Settings{}, err
	}

	s.Invalidate()
	return next, nil
}

func (st Settings) validate() error {
	switch {
	case st.DefaultInterestRate < 0 || st.DefaultInterestRate > 100:
		return validationError("Default interest rate must be between 0 and 100")
	case st.MinimumLoanAmount <= 0:
		return validationError("Minimum loan amount must be greater than zero")
	case st.MaximumLoanAmount < st.MinimumLoanAmount:
		return validationError("Maximum loan amount must not be below the minimum")
	case st.MaxLoanTermMonths <= 0:
		return validationError("Maximum loan term must be at least one month")
	case st.CompanyName == "":
		return validationError("Company name is required")
	}
	return nil
}

func fromRows(ctx context.Context, rows []models.SystemSetting) Settings {
	st := DefaultSettings()
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	for _, f := range settingFields {
		v, ok := values[f.key]
		if !ok {
			continue
		}
		if err := f.set(&st, v); err != nil {
			logger.FromContext(ctx).Warn("ignoring malformed setting", "key", f.key, "error", fmt.Sprint(err))
		}
	}
	return st
}
