package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanApplication is an applicant's loan request moving through the review workflow
type LoanApplication struct {
	ID                string `gorm:"type:varchar(36);primaryKey" json:"id"`
	ApplicationNumber string `gorm:"size:32;uniqueIndex;not null" json:"applicationNumber"`
	Status            string `gorm:"size:20;not null;index" json:"status"`

	// Personal
	FirstName       string    `gorm:"not null" json:"firstName"`
	MiddleName      *string   `json:"middleName"`
	LastName        string    `gorm:"not null" json:"lastName"`
	Suffix          *string   `json:"suffix"`
	DateOfBirth     time.Time `gorm:"type:date;not null" json:"dateOfBirth"`
	Gender          string    `gorm:"size:20;not null" json:"gender"`
	CivilStatus     string    `gorm:"size:20;not null" json:"civilStatus"`
	Nationality     string    `gorm:"not null;default:Filipino" json:"nationality"`
	Email           *string   `json:"email"`
	MobileNumber    string    `gorm:"not null" json:"mobileNumber"`
	TelephoneNumber *string   `json:"telephoneNumber"`

	// Present address
	StreetAddress string  `gorm:"not null" json:"streetAddress"`
	BarangayID    string  `gorm:"type:varchar(36);not null;index" json:"barangayId"`
	ZipCode       *string `json:"zipCode"`

	// Permanent address, nulled when SameAsPresent
	SameAsPresent          bool    `gorm:"not null" json:"sameAsPresent"`
	PermanentStreetAddress *string `json:"permanentStreetAddress"`
	PermanentBarangayID    *string `gorm:"type:varchar(36);index" json:"permanentBarangayId"`
	PermanentZipCode       *string `json:"permanentZipCode"`

	// Employment
	EmploymentStatus string   `gorm:"size:30;not null" json:"employmentStatus"`
	EmployerName     *string  `json:"employerName"`
	EmployerAddress  *string  `json:"employerAddress"`
	Position         *string  `json:"position"`
	YearsEmployed    *int     `json:"yearsEmployed"`
	MonthlyIncome    float64  `gorm:"type:decimal(15,2);not null" json:"monthlyIncome"`
	OtherIncome      *float64 `gorm:"type:decimal(15,2)" json:"otherIncome"`
	IncomeSource     *string  `json:"incomeSource"`

	// Loan terms
	LoanPurpose    string  `gorm:"not null" json:"loanPurpose"`
	LoanAmount     float64 `gorm:"type:decimal(15,2);not null" json:"loanAmount"`
	LoanTerm       int     `gorm:"not null" json:"loanTerm"`
	InterestRate   float64 `gorm:"type:decimal(5,2);not null" json:"interestRate"`
	MonthlyPayment float64 `gorm:"type:decimal(15,2);not null" json:"monthlyPayment"`

	// Co-maker
	CoMakerName         *string `json:"coMakerName"`
	CoMakerAddress      *string `json:"coMakerAddress"`
	CoMakerContact      *string `json:"coMakerContact"`
	CoMakerRelationship *string `json:"coMakerRelationship"`

	// Valid ID
	ValidIDType   *string    `gorm:"column:valid_id_type" json:"validIdType"`
	ValidIDNumber *string    `gorm:"column:valid_id_number" json:"validIdNumber"`
	ValidIDExpiry *time.Time `gorm:"column:valid_id_expiry;type:date" json:"validIdExpiry"`

	Remarks         *string `gorm:"type:text" json:"remarks"`
	RejectionReason *string `gorm:"type:text" json:"rejectionReason"`

	ProcessedByID *string    `gorm:"type:varchar(36);index" json:"processedById"`
	ApprovedByID  *string    `gorm:"type:varchar(36);index" json:"approvedById"`
	SubmittedAt   *time.Time `json:"submittedAt"`
	ApprovedAt    *time.Time `json:"approvedAt"`
	RejectedAt    *time.Time `json:"rejectedAt"`
	CreatedAt     time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Associations
	Barangay          *Barangay `gorm:"foreignKey:BarangayID" json:"barangay,omitempty"`
	PermanentBarangay *Barangay `gorm:"foreignKey:PermanentBarangayID" json:"permanentBarangay,omitempty"`
	ProcessedBy       *User     `gorm:"foreignKey:ProcessedByID" json:"-"`
	ApprovedBy        *User     `gorm:"foreignKey:ApprovedByID" json:"-"`
	Receipts          []Receipt `gorm:"foreignKey:LoanApplicationID" json:"-"`
}

// TableName specifies the table name for LoanApplication
func (LoanApplication) TableName() string {
	return "loan_applications"
}

// BeforeCreate assigns an id
func (a *LoanApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Application status constants
const (
	ApplicationStatusDraft       = "DRAFT"
	ApplicationStatusSubmitted   = "SUBMITTED"
	ApplicationStatusUnderReview = "UNDER_REVIEW"
	ApplicationStatusApproved    = "APPROVED"
	ApplicationStatusRejected    = "REJECTED"
)

// ApplicationStatuses lists every status in workflow order
var ApplicationStatuses = []string{
	ApplicationStatusDraft,
	ApplicationStatusSubmitted,
	ApplicationStatusUnderReview,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// EntityLoanApplication is the audit entity type for applications
const EntityLoanApplication = "LoanApplication"

// MaySubmit returns true if the application can be submitted
func (a *LoanApplication) MaySubmit() bool {
	return a.Status == ApplicationStatusDraft
}

// MayReview returns true if the application can be taken under review
func (a *LoanApplication) MayReview() bool {
	return a.Status == ApplicationStatusSubmitted
}

// MayDecide returns true if the application can be approved or rejected
func (a *LoanApplication) MayDecide() bool {
	return a.Status == ApplicationStatusUnderReview
}

// IsEditable returns true while the application is still a draft
func (a *LoanApplication) IsEditable() bool {
	return a.Status == ApplicationStatusDraft
}

// IsApproved returns true if the application was approved
func (a *LoanApplication) IsApproved() bool {
	return a.Status == ApplicationStatusApproved
}

// FullName returns the applicant's display name
func (a *LoanApplication) FullName() string {
	name := a.FirstName
	if a.MiddleName != nil && *a.MiddleName != "" {
		name += " " + *a.MiddleName
	}
	name += " " + a.LastName
	if a.Suffix != nil && *a.Suffix != "" {
		name += " " + *a.Suffix
	}
	return name
}

// ApplicationResponse is the JSON response format for applications
type ApplicationResponse struct {
	LoanApplication
	ProcessedBy *UserRef  `json:"processedBy"`
	ApprovedBy  *UserRef  `json:"approvedBy"`
	Receipts    []Receipt `json:"receipts,omitempty"`
}

// ToResponse converts LoanApplication to ApplicationResponse
func (a *LoanApplication) ToResponse() ApplicationResponse {
	return ApplicationResponse{
		LoanApplication: *a,
		ProcessedBy:     refOf(a.ProcessedBy),
		ApprovedBy:      refOf(a.ApprovedBy),
		Receipts:        a.Receipts,
	}
}
