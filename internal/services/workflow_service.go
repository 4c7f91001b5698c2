package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/metrics"
	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/internal/statemachine"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

// workflowRule is one row of the action table
type workflowRule struct {
	capability   auth.Capability // empty means any authenticated user
	denied       string
	precondition string
}

var workflowRules = map[string]workflowRule{
	statemachine.EventSubmit: {
		capability:   auth.CapCreateApplications,
		denied:       "You do not have permission to submit applications",
		precondition: "Only draft applications can be submitted",
	},
	statemachine.EventReview: {
		precondition: "Only submitted applications can be marked for review",
	},
	statemachine.EventApprove: {
		capability:   auth.CapApproveApplications,
		denied:       "You do not have permission to approve applications",
		precondition: "Only applications under review can be approved",
	},
	statemachine.EventReject: {
		capability:   auth.CapApproveApplications,
		denied:       "You do not have permission to reject applications",
		precondition: "Only applications under review can be rejected",
	},
}

// WorkflowService moves applications through DRAFT, SUBMITTED, UNDER_REVIEW, APPROVED and REJECTED
type WorkflowService struct {
	apps  repository.ApplicationRepository
	tx    repository.Transactor
	audit *AuditService
	now   func() time.Time
}

func NewWorkflowService(apps repository.ApplicationRepository, tx repository.Transactor, audit *AuditService, now func() time.Time) *WorkflowService {
	if now == nil {
		now = time.Now
	}
	return &WorkflowService{apps: apps, tx: tx, audit: audit, now: now}
}

// Transition applies action to the application. Checks run in a fixed order:
// capability, existence, precondition, then action-specific input.
// Nothing is written unless all of them pass.
func (s *WorkflowService) Transition(ctx context.Context, id, action, rejectionReason string, actor Actor) (*models.LoanApplication, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	rule, ok := workflowRules[action]
	if !ok {
		return nil, validationError("Invalid action")
	}

	if actor.UserID == "" {
		return nil, ErrAuthenticationRequired
	}
	if rule.capability != "" && !actor.Can(rule.capability) {
		return nil, &KindError{Kind: ErrForbidden, Message: rule.denied}
	}

	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	from := app.Status

	if err := statemachine.NewApplicationFSM(app).Fire(ctx, action); err != nil {
		if errors.Is(err, statemachine.ErrTransitionNotAllowed) {
			return nil, invalidTransition(rule.precondition)
		}
		return nil, err
	}

	rejectionReason = strings.TrimSpace(rejectionReason)
	if action == statemachine.EventReject && rejectionReason == "" {
		return nil, validationError("Rejection reason is required")
	}

	now := s.now()
	changes := map[string]interface{}{"status": app.Status}
	switch action {
	case statemachine.EventSubmit:
		if app.SubmittedAt == nil {
			changes["submitted_at"] = now
		}
	case statemachine.EventReview:
		changes["processed_by_id"] = actor.UserID
	case statemachine.EventApprove:
		changes["approved_by_id"] = actor.UserID
		changes["approved_at"] = now
	case statemachine.EventReject:
		changes["approved_by_id"] = actor.UserID
		changes["rejected_at"] = now
		changes["rejection_reason"] = rejectionReason
	}

	snapshot := Change{From: from, To: app.Status}
	if rejectionReason != "" {
		snapshot.Extra = map[string]interface{}{"rejectionReason": rejectionReason}
	}

	err = s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		ok, err := r.Application.Transition(ctx, id, from, changes)
		if err != nil {
			return fmt.Errorf("%s application: %w", action, err)
		}
		if !ok {
			return lostRace(ctx, r.Application, id)
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntityLoanApplication, id, strings.ToUpper(action), snapshot)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(action, app.Status)
	logger.FromContext(ctx).Info("application transitioned",
		"id", id, "action", action, "from", from, "to", app.Status, "user_id", actor.UserID)

	updated, err := s.apps.FindWithDetails(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	return updated, nil
}
