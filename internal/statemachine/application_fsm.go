package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/looplab/fsm"
)

// ErrTransitionNotAllowed is returned when an event is not valid from the current state
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// Application workflow events
const (
	EventSubmit  = "submit"
	EventReview  = "review"
	EventApprove = "approve"
	EventReject  = "reject"
)

// ApplicationFSM wraps a loan application with its state machine.
// Transitions only move forward; APPROVED and REJECTED are terminal.
type ApplicationFSM struct {
	app *models.LoanApplication
	fsm *fsm.FSM
}

// NewApplicationFSM creates a new application state machine
func NewApplicationFSM(app *models.LoanApplication) *ApplicationFSM {
	afsm := &ApplicationFSM{
		app: app,
	}

	afsm.fsm = fsm.NewFSM(
		app.Status,
		fsm.Events{
			{Name: EventSubmit, Src: []string{models.ApplicationStatusDraft}, Dst: models.ApplicationStatusSubmitted},
			{Name: EventReview, Src: []string{models.ApplicationStatusSubmitted}, Dst: models.ApplicationStatusUnderReview},
			{Name: EventApprove, Src: []string{models.ApplicationStatusUnderReview}, Dst: models.ApplicationStatusApproved},
			{Name: EventReject, Src: []string{models.ApplicationStatusUnderReview}, Dst: models.ApplicationStatusRejected},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Fire applies event and updates the wrapped application's status
func (a *ApplicationFSM) Fire(ctx context.Context, event string) error {
	if !a.fsm.Can(event) {
		return fmt.Errorf("%w: cannot %s application in status %s", ErrTransitionNotAllowed, event, a.app.Status)
	}

	if err := a.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s application: %w", event, err)
	}

	a.app.Status = a.fsm.Current()
	return nil
}

// Submit transitions a draft to submitted
func (a *ApplicationFSM) Submit(ctx context.Context) error {
	return a.Fire(ctx, EventSubmit)
}
