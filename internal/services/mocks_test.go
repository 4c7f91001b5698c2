package services

import (
	"context"
	"time"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func adminActor() Actor {
	return NewActor(&auth.Identity{UserID: "admin-1", Email: "admin@lending.ph", Role: models.RoleAdmin}, "10.0.0.1", "test-agent")
}

func processorActor() Actor {
	return NewActor(&auth.Identity{UserID: "proc-1", Email: "proc@lending.ph", Role: models.RoleProcessor}, "10.0.0.2", "test-agent")
}

type mockApplicationRepo struct {
	repository.ApplicationRepository
	mockFindByID        func(ctx context.Context, id string) (*models.LoanApplication, error)
	mockFindWithDetails func(ctx context.Context, id string) (*models.LoanApplication, error)
	mockList            func(ctx context.Context, query *repository.ListQuery) ([]models.LoanApplication, int64, error)
	mockNextNumber      func(ctx context.Context, year int) (string, error)
	mockCreate          func(ctx context.Context, app *models.LoanApplication) error
	mockReplace         func(ctx context.Context, app *models.LoanApplication, expectedStatus string) (bool, error)
	mockTransition      func(ctx context.Context, id, fromStatus string, changes map[string]interface{}) (bool, error)
	mockDeleteIfStatus  func(ctx context.Context, id, status string) (bool, error)
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id string) (*models.LoanApplication, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockApplicationRepo) FindWithDetails(ctx context.Context, id string) (*models.LoanApplication, error) {
	if m.mockFindWithDetails != nil {
		return m.mockFindWithDetails(ctx, id)
	}
	return m.mockFindByID(ctx, id)
}

func (m *mockApplicationRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.LoanApplication, int64, error) {
	return m.mockList(ctx, query)
}

func (m *mockApplicationRepo) NextApplicationNumber(ctx context.Context, year int) (string, error) {
	return m.mockNextNumber(ctx, year)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *models.LoanApplication) error {
	return m.mockCreate(ctx, app)
}

func (m *mockApplicationRepo) Replace(ctx context.Context, app *models.LoanApplication, expectedStatus string) (bool, error) {
	return m.mockReplace(ctx, app, expectedStatus)
}

func (m *mockApplicationRepo) Transition(ctx context.Context, id, fromStatus string, changes map[string]interface{}) (bool, error) {
	return m.mockTransition(ctx, id, fromStatus, changes)
}

func (m *mockApplicationRepo) DeleteIfStatus(ctx context.Context, id, status string) (bool, error) {
	return m.mockDeleteIfStatus(ctx, id, status)
}

type mockReceiptRepo struct {
	repository.ReceiptRepository
	mockFindByID   func(ctx context.Context, id string) (*models.Receipt, error)
	mockList       func(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, int64, error)
	mockListAll    func(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, error)
	mockNextNumber func(ctx context.Context, prefix string, year int) (string, error)
	mockCreate     func(ctx context.Context, receipt *models.Receipt) error
	mockVoid       func(ctx context.Context, id, reason string, at time.Time) (bool, error)
}

func (m *mockReceiptRepo) FindByID(ctx context.Context, id string) (*models.Receipt, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockReceiptRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, int64, error) {
	return m.mockList(ctx, query)
}

func (m *mockReceiptRepo) ListAll(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, error) {
	return m.mockListAll(ctx, query)
}

func (m *mockReceiptRepo) NextReceiptNumber(ctx context.Context, prefix string, year int) (string, error) {
	return m.mockNextNumber(ctx, prefix, year)
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt *models.Receipt) error {
	return m.mockCreate(ctx, receipt)
}

func (m *mockReceiptRepo) Void(ctx context.Context, id, reason string, at time.Time) (bool, error) {
	return m.mockVoid(ctx, id, reason, at)
}

type mockUserRepo struct {
	repository.UserRepository
	mockFindByID    func(ctx context.Context, id string) (*models.User, error)
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockList        func(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error)
	mockCreate      func(ctx context.Context, user *models.User) error
	mockSetActive   func(ctx context.Context, id string, active bool) error
}

func (m *mockUserRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return m.mockList(ctx, query)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return m.mockSetActive(ctx, id, active)
}

type mockAuditRepo struct {
	repository.AuditRepository
	entries []models.AuditLog
	err     error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}

type mockSettingRepo struct {
	repository.SettingRepository
	mockAll    func(ctx context.Context) ([]models.SystemSetting, error)
	mockUpsert func(ctx context.Context, settings []models.SystemSetting) error
	allCalls   int
}

func (m *mockSettingRepo) All(ctx context.Context) ([]models.SystemSetting, error) {
	m.allCalls++
	return m.mockAll(ctx)
}

func (m *mockSettingRepo) Upsert(ctx context.Context, settings []models.SystemSetting) error {
	return m.mockUpsert(ctx, settings)
}

type mockGeoRepo struct {
	repository.GeoRepository
	known map[string]bool
}

func (m *mockGeoRepo) BarangayExists(ctx context.Context, id string) (bool, error) {
	return m.known[id], nil
}

// mockTransactor runs fn against the same mock repositories; a returned
// error is passed through as a rollback would be
type mockTransactor struct {
	repos *repository.Repositories
	calls int
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	m.calls++
	return fn(m.repos)
}

type staticSettings Settings

func (s staticSettings) Get(ctx context.Context) Settings { return Settings(s) }

func notFoundApp(ctx context.Context, id string) (*models.LoanApplication, error) {
	return nil, gorm.ErrRecordNotFound
}
