package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey is returned when an insert violates a unique constraint
var ErrDuplicateKey = errors.New("duplicate key")

// Repositories holds all repository instances
type Repositories struct {
	User        UserRepository
	Application ApplicationRepository
	Receipt     ReceiptRepository
	Audit       AuditRepository
	Setting     SettingRepository
	Geo         GeoRepository
	Dashboard   DashboardRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Application: NewApplicationRepository(db),
		Receipt:     NewReceiptRepository(db),
		Audit:       NewAuditRepository(db),
		Setting:     NewSettingRepository(db),
		Geo:         NewGeoRepository(db),
		Dashboard:   NewDashboardRepository(db),
	}
}

// Transactor runs fn against repositories bound to a single database transaction.
// Returning an error from fn rolls the transaction back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor over db
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 10,
		Filters: make(map[string]string),
	}
}

// Normalize clamps page and page size into range
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	if q.PerPage > 100 {
		q.PerPage = 100
	}
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
}

func (q *ListQuery) offset() int {
	return (q.Page - 1) * q.PerPage
}

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func translate(err error) error {
	if err != nil && isDuplicateKeyError(err) {
		return errors.Join(ErrDuplicateKey, err)
	}
	return err
}
