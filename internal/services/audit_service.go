package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
)

// AuditService appends audit entries through the caller's transaction-bound repository
type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Change is the before/after snapshot stored with transition entries
type Change struct {
	From  interface{}            `json:"from"`
	To    interface{}            `json:"to"`
	Extra map[string]interface{} `json:"-"`
}

// MarshalJSON flattens Extra next to from/to
func (c Change) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Extra)+2)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["from"] = c.From
	out["to"] = c.To
	return json.Marshal(out)
}

// Record appends one entry. Errors are returned so the caller's transaction rolls back.
func (s *AuditService) Record(ctx context.Context, repo repository.AuditRepository, actor Actor, entityType, entityID, action string, changes interface{}) error {
	details, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}

	entry := &models.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    string(details),
		UserID:     actor.UserID,
		UserEmail:  actor.Email,
		IPAddress:  truncate(actor.IPAddress, 45),
		UserAgent:  truncate(actor.UserAgent, 255),
	}
	if err := repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("record audit %s %s: %w", action, entityType, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
