package services

import (
	"time"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/config"
	"github.com/cvmfinance/orcr-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth        *AuthService
	User        *UserService
	Application *ApplicationService
	Workflow    *WorkflowService
	Receipt     *ReceiptService
	Export      *ExportService
	Settings    *SettingsService
	Dashboard   *DashboardService
	Audit       *AuditService
}

// NewServices creates all service instances. A nil now uses time.Now.
func NewServices(repos *repository.Repositories, tx repository.Transactor, provider auth.Provider, cfg *config.Config, now func() time.Time) *Services {
	if now == nil {
		now = time.Now
	}
	auditSvc := NewAuditService()
	settingsSvc := NewSettingsService(repos.Setting, tx, auditSvc, cfg.SettingsTTL, now)

	return &Services{
		Auth:        NewAuthService(provider),
		User:        NewUserService(repos.User, tx, auditSvc),
		Application: NewApplicationService(repos.Application, repos.Geo, tx, auditSvc, settingsSvc, now),
		Workflow:    NewWorkflowService(repos.Application, tx, auditSvc, now),
		Receipt:     NewReceiptService(repos.Receipt, repos.Application, tx, auditSvc, now),
		Export:      NewExportService(repos.Receipt, settingsSvc, now),
		Settings:    settingsSvc,
		Dashboard:   NewDashboardService(repos.Dashboard),
		Audit:       auditSvc,
	}
}
