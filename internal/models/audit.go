package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a state-changing action
type AuditLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EntityType string    `gorm:"size:50;not null;index:idx_audit_entity" json:"entityType"` // LoanApplication, Receipt, User, SystemSetting
	EntityID   string    `gorm:"size:64;not null;index:idx_audit_entity" json:"entityId"`
	Action     string    `gorm:"size:20;not null" json:"action"`
	Changes    string    `gorm:"type:text" json:"changes"` // JSON snapshot
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	UserEmail  string    `gorm:"not null" json:"userEmail"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	UserAgent  string    `gorm:"size:255" json:"userAgent"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns an id
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Audit action constants
const (
	AuditActionCreate     = "CREATE"
	AuditActionUpdate     = "UPDATE"
	AuditActionDelete     = "DELETE"
	AuditActionSubmit     = "SUBMIT"
	AuditActionReview     = "REVIEW"
	AuditActionApprove    = "APPROVE"
	AuditActionReject     = "REJECT"
	AuditActionVoid       = "VOID"
	AuditActionDeactivate = "DEACTIVATE"
)
