package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/internal/statemachine"
	"github.com/cvmfinance/orcr-api/pkg/logger"
	"gorm.io/gorm"
)

// ApplicationInput is the full set of editable application fields
type ApplicationInput struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	FirstName       string  `json:"firstName"`
	MiddleName      *string `json:"middleName"`
	LastName        string  `json:"lastName"`
	Suffix          *string `json:"suffix"`
	DateOfBirth     string  `json:"dateOfBirth"`
	Gender          string  `json:"gender"`
	CivilStatus     string  `json:"civilStatus"`
	Nationality     string  `json:"nationality"`
	Email           *string `json:"email"`
	MobileNumber    string  `json:"mobileNumber"`
	TelephoneNumber *string `json:"telephoneNumber"`

	StreetAddress          string  `json:"streetAddress"`
	BarangayID             string  `json:"barangayId"`
	ZipCode                *string `json:"zipCode"`
	SameAsPresent          *bool   `json:"sameAsPresent"`
	PermanentStreetAddress *string `json:"permanentStreetAddress"`
	PermanentBarangayID    *string `json:"permanentBarangayId"`
	PermanentZipCode       *string `json:"permanentZipCode"`

	EmploymentStatus string  `json:"employmentStatus"`
	EmployerName     *string `json:"employerName"`
	EmployerAddress  *string `json:"employerAddress"`
	Position         *string `json:"position"`
	YearsEmployed    Number  `json:"yearsEmployed"`
	MonthlyIncome    Number  `json:"monthlyIncome"`
	OtherIncome      Number  `json:"otherIncome"`
	IncomeSource     *string `json:"incomeSource"`

	LoanPurpose  string `json:"loanPurpose"`
	LoanAmount   Number `json:"loanAmount"`
	LoanTerm     Number `json:"loanTerm"`
	InterestRate Number `json:"interestRate"`

	CoMakerName         *string `json:"coMakerName"`
	CoMakerAddress      *string `json:"coMakerAddress"`
	CoMakerContact      *string `json:"coMakerContact"`
	CoMakerRelationship *string `json:"coMakerRelationship"`

	ValidIDType   *string `json:"validIdType"`
	ValidIDNumber *string `json:"validIdNumber"`
	ValidIDExpiry *string `json:"validIdExpiry"`

	Remarks *string `json:"remarks"`
}

// ApplicationFilter narrows an application listing
type ApplicationFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// SettingsReader supplies the current lending parameters
type SettingsReader interface {
	Get(ctx context.Context) Settings
}

// ApplicationService owns the application record lifecycle outside the status workflow
type ApplicationService struct {
	apps     repository.ApplicationRepository
	geo      repository.GeoRepository
	tx       repository.Transactor
	audit    *AuditService
	settings SettingsReader
	now      func() time.Time
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	geo repository.GeoRepository,
	tx repository.Transactor,
	audit *AuditService,
	settings SettingsReader,
	now func() time.Time,
) *ApplicationService {
	if now == nil {
		now = time.Now
	}
	return &ApplicationService{apps: apps, geo: geo, tx: tx, audit: audit, settings: settings, now: now}
}

// Get returns the application with its address chain, staff references and receipts
func (s *ApplicationService) Get(ctx context.Context, id string) (*models.LoanApplication, error) {
	app, err := s.apps.FindWithDetails(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	return app, nil
}

// List returns one page of applications and the pagination block
func (s *ApplicationService) List(ctx context.Context, filter ApplicationFilter) ([]models.LoanApplication, models.Pagination, error) {
	query := repository.NewListQuery()
	query.Page = filter.Page
	query.PerPage = filter.Limit
	query.Search = filter.Search
	query.Filters["status"] = strings.ToUpper(strings.TrimSpace(filter.Status))
	query.Normalize()

	apps, total, err := s.apps.List(ctx, query)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list applications: %w", err)
	}
	return apps, models.NewPagination(query.Page, query.PerPage, total), nil
}

// Create stores a new application as DRAFT, or SUBMITTED when asked, with a fresh number
func (s *ApplicationService) Create(ctx context.Context, in ApplicationInput, actor Actor) (*models.LoanApplication, error) {
	if err := actor.require(auth.CapCreateApplications); err != nil {
		return nil, err
	}

	app, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch strings.ToUpper(strings.TrimSpace(in.Status)) {
	case "", models.ApplicationStatusDraft:
		app.Status = models.ApplicationStatusDraft
	case models.ApplicationStatusSubmitted:
		app.Status = models.ApplicationStatusSubmitted
		app.SubmittedAt = &now
	default:
		return nil, validationError("Status must be DRAFT or SUBMITTED")
	}
	processedBy := actor.UserID
	app.ProcessedByID = &processedBy

	err = withUniqueRetry(ctx, "application number", func() error {
		return s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
			number, err := r.Application.NextApplicationNumber(ctx, now.Year())
			if err != nil {
				return fmt.Errorf("next application number: %w", err)
			}
			app.ApplicationNumber = number
			if err := r.Application.Create(ctx, app); err != nil {
				return err
			}
			return s.audit.Record(ctx, r.Audit, actor, models.EntityLoanApplication, app.ID, models.AuditActionCreate,
				Change{To: app.Status, Extra: map[string]interface{}{"applicationNumber": number}})
		})
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("application created", "id", app.ID, "number", app.ApplicationNumber, "status", app.Status)
	return s.Get(ctx, app.ID)
}

// Update fully replaces a DRAFT application. The edit may also submit it.
func (s *ApplicationService) Update(ctx context.Context, id string, in ApplicationInput, actor Actor) (*models.LoanApplication, error) {
	if err := actor.require(auth.CapCreateApplications); err != nil {
		return nil, err
	}

	existing, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	if !existing.IsEditable() {
		return nil, invalidTransition(fmt.Sprintf("Only draft applications can be edited, this one is %s", existing.Status))
	}

	app, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	app.ID = existing.ID
	app.ApplicationNumber = existing.ApplicationNumber
	app.CreatedAt = existing.CreatedAt
	app.ProcessedByID = existing.ProcessedByID
	app.SubmittedAt = existing.SubmittedAt
	app.Status = existing.Status

	action := models.AuditActionUpdate
	switch strings.ToUpper(strings.TrimSpace(in.Status)) {
	case "", models.ApplicationStatusDraft:
	case models.ApplicationStatusSubmitted:
		if err := statemachine.NewApplicationFSM(app).Submit(ctx); err != nil {
			return nil, invalidTransition(err.Error())
		}
		if app.SubmittedAt == nil {
			now := s.now()
			app.SubmittedAt = &now
		}
		action = models.AuditActionSubmit
	default:
		return nil, validationError("Status must be DRAFT or SUBMITTED")
	}

	err = s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		ok, err := r.Application.Replace(ctx, app, models.ApplicationStatusDraft)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		if !ok {
			return lostRace(ctx, r.Application, id)
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntityLoanApplication, app.ID, action,
			Change{From: existing.Status, To: app.Status})
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, app.ID)
}

// Delete hard-deletes a DRAFT application
func (s *ApplicationService) Delete(ctx context.Context, id string, actor Actor) error {
	if actor.UserID == "" {
		return ErrAuthenticationRequired
	}

	existing, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Application")
	}
	if !existing.IsEditable() {
		return invalidTransition("Only draft applications can be deleted")
	}

	return s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		ok, err := r.Application.DeleteIfStatus(ctx, id, models.ApplicationStatusDraft)
		if err != nil {
			return fmt.Errorf("delete application: %w", err)
		}
		if !ok {
			return lostRace(ctx, r.Application, id)
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntityLoanApplication, id, models.AuditActionDelete,
			Change{From: existing.Status, Extra: map[string]interface{}{"applicationNumber": existing.ApplicationNumber}})
	})
}

// build validates input and derives the stored record. Status and bookkeeping
// fields are left for the caller.
func (s *ApplicationService) build(ctx context.Context, in ApplicationInput) (*models.LoanApplication, error) {
	switch {
	case blank(in.FirstName):
		return nil, validationError("First name is required")
	case blank(in.LastName):
		return nil, validationError("Last name is required")
	case blank(in.DateOfBirth):
		return nil, validationError("Date of birth is required")
	case blank(in.Gender):
		return nil, validationError("Gender is required")
	case blank(in.CivilStatus):
		return nil, validationError("Civil status is required")
	case blank(in.MobileNumber):
		return nil, validationError("Mobile number is required")
	case blank(in.StreetAddress):
		return nil, validationError("Street address is required")
	case blank(in.BarangayID):
		return nil, validationError("Barangay is required")
	case blank(in.EmploymentStatus):
		return nil, validationError("Employment status is required")
	case !in.MonthlyIncome.Finite() || in.MonthlyIncome.Value < 0:
		return nil, validationError("Valid monthly income is required")
	case blank(in.LoanPurpose):
		return nil, validationError("Loan purpose is required")
	case !in.LoanAmount.Finite() || in.LoanAmount.Value <= 0:
		return nil, validationError("Valid loan amount is required")
	case !in.LoanTerm.Finite() || in.LoanTerm.Value <= 0 || in.LoanTerm.Value != float64(int(in.LoanTerm.Value)):
		return nil, validationError("Valid loan term is required")
	case in.OtherIncome.Set && (!in.OtherIncome.Finite() || in.OtherIncome.Value < 0):
		return nil, validationError("Other income must be a valid amount")
	case in.YearsEmployed.Set && (!in.YearsEmployed.Finite() || in.YearsEmployed.Value < 0):
		return nil, validationError("Years employed must be a valid number")
	}

	dob, err := parseDate(in.DateOfBirth)
	if err != nil {
		return nil, validationError("Date of birth must be a valid date")
	}
	var idExpiry *time.Time
	if raw := optional(in.ValidIDExpiry); raw != nil {
		t, err := parseDate(*raw)
		if err != nil {
			return nil, validationError("Valid ID expiry must be a valid date")
		}
		idExpiry = &t
	}

	settings := s.settings.Get(ctx)
	amount := in.LoanAmount.Value
	term := int(in.LoanTerm.Value)
	if amount < settings.MinimumLoanAmount || amount > settings.MaximumLoanAmount {
		return nil, validationError(fmt.Sprintf("Loan amount must be between %.2f and %.2f",
			settings.MinimumLoanAmount, settings.MaximumLoanAmount))
	}
	if term > settings.MaxLoanTermMonths {
		return nil, validationError(fmt.Sprintf("Loan term must not exceed %d months", settings.MaxLoanTermMonths))
	}
	rate := settings.DefaultInterestRate
	if in.InterestRate.Set {
		if !in.InterestRate.Finite() {
			return nil, validationError("Interest rate must be between 0 and 100")
		}
		rate = in.InterestRate.Value
	}
	if rate < 0 || rate > 100 {
		return nil, validationError("Interest rate must be between 0 and 100")
	}

	if err := s.requireBarangay(ctx, in.BarangayID); err != nil {
		return nil, err
	}

	sameAsPresent := true
	if in.SameAsPresent != nil {
		sameAsPresent = *in.SameAsPresent
	}

	nationality := strings.TrimSpace(in.Nationality)
	if nationality == "" {
		nationality = "Filipino"
	}

	app := &models.LoanApplication{
		FirstName:       strings.TrimSpace(in.FirstName),
		MiddleName:      optional(in.MiddleName),
		LastName:        strings.TrimSpace(in.LastName),
		Suffix:          optional(in.Suffix),
		DateOfBirth:     dob,
		Gender:          strings.TrimSpace(in.Gender),
		CivilStatus:     strings.TrimSpace(in.CivilStatus),
		Nationality:     nationality,
		Email:           optional(in.Email),
		MobileNumber:    strings.TrimSpace(in.MobileNumber),
		TelephoneNumber: optional(in.TelephoneNumber),

		StreetAddress: strings.TrimSpace(in.StreetAddress),
		BarangayID:    in.BarangayID,
		ZipCode:       optional(in.ZipCode),
		SameAsPresent: sameAsPresent,

		EmploymentStatus: strings.TrimSpace(in.EmploymentStatus),
		EmployerName:     optional(in.EmployerName),
		EmployerAddress:  optional(in.EmployerAddress),
		Position:         optional(in.Position),
		YearsEmployed:    in.YearsEmployed.intPtr(),
		MonthlyIncome:    in.MonthlyIncome.Value,
		OtherIncome:      in.OtherIncome.ptr(),
		IncomeSource:     optional(in.IncomeSource),

		LoanPurpose:    strings.TrimSpace(in.LoanPurpose),
		LoanAmount:     amount,
		LoanTerm:       term,
		InterestRate:   rate,
		MonthlyPayment: MonthlyPayment(amount, rate, term),

		CoMakerName:         optional(in.CoMakerName),
		CoMakerAddress:      optional(in.CoMakerAddress),
		CoMakerContact:      optional(in.CoMakerContact),
		CoMakerRelationship: optional(in.CoMakerRelationship),

		ValidIDType:   optional(in.ValidIDType),
		ValidIDNumber: optional(in.ValidIDNumber),
		ValidIDExpiry: idExpiry,

		Remarks: optional(in.Remarks),
	}

	if !sameAsPresent {
		app.PermanentStreetAddress = optional(in.PermanentStreetAddress)
		app.PermanentBarangayID = optional(in.PermanentBarangayID)
		app.PermanentZipCode = optional(in.PermanentZipCode)
		if app.PermanentBarangayID != nil {
			if err := s.requireBarangay(ctx, *app.PermanentBarangayID); err != nil {
				return nil, err
			}
		}
	}

	return app, nil
}

func (s *ApplicationService) requireBarangay(ctx context.Context, id string) error {
	ok, err := s.geo.BarangayExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check barangay: %w", err)
	}
	if !ok {
		return validationError("Invalid barangay")
	}
	return nil
}

// lostRace explains a compare-and-swap that matched no row
func lostRace(ctx context.Context, apps repository.ApplicationRepository, id string) error {
	current, err := apps.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Application")
	}
	return invalidTransition(fmt.Sprintf("Application is now %s", current.Status))
}

// notFound maps a missing row to ErrNotFound, e.g. "Application not found"
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError(what + " not found")
	}
	return fmt.Errorf("find %s: %w", strings.ToLower(what), err)
}
