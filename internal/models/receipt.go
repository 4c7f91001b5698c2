package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is an issued payment receipt. Voiding is the only mutation after issuance.
type Receipt struct {
	ID                string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ReceiptNumber     string     `gorm:"size:32;uniqueIndex;not null" json:"receiptNumber"`
	ReceiptType       string     `gorm:"size:30;not null;index" json:"receiptType"`
	Amount            float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentMethod     string     `gorm:"not null" json:"paymentMethod"`
	PaymentDetails    *string    `gorm:"type:text" json:"paymentDetails"`
	Purpose           string     `gorm:"not null" json:"purpose"`
	PayerName         string     `gorm:"not null" json:"payerName"`
	PayerAddress      *string    `json:"payerAddress"`
	Remarks           *string    `gorm:"type:text" json:"remarks"`
	LoanApplicationID *string    `gorm:"type:varchar(36);index" json:"loanApplicationId"`
	IssuedByID        string     `gorm:"type:varchar(36);not null;index" json:"issuedById"`
	IssuedAt          time.Time  `gorm:"not null;index" json:"issuedAt"`
	VoidedAt          *time.Time `gorm:"index" json:"voidedAt"`
	VoidedReason      *string    `gorm:"type:text" json:"voidedReason"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	// Associations
	LoanApplication *LoanApplication `gorm:"foreignKey:LoanApplicationID" json:"-"`
	IssuedBy        *User            `gorm:"foreignKey:IssuedByID" json:"-"`
}

// TableName specifies the table name for Receipt
func (Receipt) TableName() string {
	return "receipts"
}

// BeforeCreate assigns an id
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Receipt type constants
const (
	ReceiptTypeOfficial   = "OFFICIAL_RECEIPT"
	ReceiptTypeCollection = "COLLECTION_RECEIPT"
)

// Receipt lifecycle states; derived from VoidedAt, not stored
const (
	ReceiptStateIssued = "ISSUED"
	ReceiptStateVoided = "VOIDED"
)

// EntityReceipt is the audit entity type for receipts
const EntityReceipt = "Receipt"

// ReceiptPrefix returns the number prefix for a receipt type, or "" if unknown
func ReceiptPrefix(receiptType string) string {
	switch receiptType {
	case ReceiptTypeOfficial:
		return "OR"
	case ReceiptTypeCollection:
		return "CR"
	}
	return ""
}

// IsVoided returns true once the receipt has been voided
func (r *Receipt) IsVoided() bool {
	return r.VoidedAt != nil
}

// State returns the lifecycle state of the receipt
func (r *Receipt) State() string {
	if r.IsVoided() {
		return ReceiptStateVoided
	}
	return ReceiptStateIssued
}

// ReceiptApplicationRef is the application summary embedded in receipt responses
type ReceiptApplicationRef struct {
	ID                string `json:"id"`
	ApplicationNumber string `json:"applicationNumber"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
}

// ReceiptResponse is the JSON response format for receipts
type ReceiptResponse struct {
	Receipt
	LoanApplication *ReceiptApplicationRef `json:"loanApplication"`
	IssuedBy        *UserRef               `json:"issuedBy"`
}

// ToResponse converts Receipt to ReceiptResponse
func (r *Receipt) ToResponse() ReceiptResponse {
	resp := ReceiptResponse{
		Receipt:  *r,
		IssuedBy: refOf(r.IssuedBy),
	}
	if app := r.LoanApplication; app != nil {
		resp.LoanApplication = &ReceiptApplicationRef{
			ID:                app.ID,
			ApplicationNumber: app.ApplicationNumber,
			FirstName:         app.FirstName,
			LastName:          app.LastName,
		}
	}
	return resp
}
