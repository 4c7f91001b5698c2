package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/looplab/fsm"
)

const EventVoid = "void"

// ReceiptFSM wraps a receipt with its issued -> voided state machine
type ReceiptFSM struct {
	receipt *models.Receipt
	fsm     *fsm.FSM
}

// NewReceiptFSM creates a new receipt state machine
func NewReceiptFSM(receipt *models.Receipt) *ReceiptFSM {
	rfsm := &ReceiptFSM{
		receipt: receipt,
	}

	rfsm.fsm = fsm.NewFSM(
		receipt.State(),
		fsm.Events{
			{Name: EventVoid, Src: []string{models.ReceiptStateIssued}, Dst: models.ReceiptStateVoided},
		},
		fsm.Callbacks{},
	)

	return rfsm
}

// Void marks the receipt voided at the given time
func (r *ReceiptFSM) Void(ctx context.Context, reason string, at time.Time) error {
	if !r.fsm.Can(EventVoid) {
		return fmt.Errorf("%w: receipt %s is already voided", ErrTransitionNotAllowed, r.receipt.ReceiptNumber)
	}

	if err := r.fsm.Event(ctx, EventVoid); err != nil {
		return fmt.Errorf("failed to void receipt: %w", err)
	}

	r.receipt.VoidedAt = &at
	r.receipt.VoidedReason = &reason
	return nil
}
