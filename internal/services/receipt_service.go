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

// ReceiptInput is the payload for issuing a receipt
type ReceiptInput struct {
	ReceiptType       string  `json:"receiptType"`
	Amount            Number  `json:"amount"`
	PaymentMethod     string  `json:"paymentMethod"`
	PaymentDetails    *string `json:"paymentDetails"`
	Purpose           string  `json:"purpose"`
	PayerName         string  `json:"payerName"`
	PayerAddress      *string `json:"payerAddress"`
	Remarks           *string `json:"remarks"`
	LoanApplicationID *string `json:"loanApplicationId"`
}

// ReceiptFilter narrows a receipt listing or export
type ReceiptFilter struct {
	Type          string
	Search        string
	IncludeVoided bool
	Page          int
	Limit         int
}

func (f ReceiptFilter) query() *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page = f.Page
	query.PerPage = f.Limit
	query.Search = f.Search
	query.Filters["type"] = strings.ToUpper(strings.TrimSpace(f.Type))
	if f.IncludeVoided {
		query.Filters["include_voided"] = "true"
	}
	query.Normalize()
	return query
}

// ReceiptService issues, lists and voids receipts
type ReceiptService struct {
	receipts repository.ReceiptRepository
	apps     repository.ApplicationRepository
	tx       repository.Transactor
	audit    *AuditService
	now      func() time.Time
}

func NewReceiptService(
	receipts repository.ReceiptRepository,
	apps repository.ApplicationRepository,
	tx repository.Transactor,
	audit *AuditService,
	now func() time.Time,
) *ReceiptService {
	if now == nil {
		now = time.Now
	}
	return &ReceiptService{receipts: receipts, apps: apps, tx: tx, audit: audit, now: now}
}

// Issue validates input, allocates the next OR/CR number for the year and
// stores the receipt together with its audit entry
func (s *ReceiptService) Issue(ctx context.Context, in ReceiptInput, actor Actor) (*models.Receipt, error) {
	if err := actor.require(auth.CapGenerateReceipts); err != nil {
		return nil, err
	}

	receiptType := strings.ToUpper(strings.TrimSpace(in.ReceiptType))
	prefix := models.ReceiptPrefix(receiptType)
	var amount float64
	if in.Amount.Finite() {
		amount = roundCentavos(in.Amount.Value)
	}
	switch {
	case prefix == "":
		return nil, validationError("Invalid receipt type")
	case amount <= 0:
		return nil, validationError("Valid amount is required")
	case blank(in.PayerName):
		return nil, validationError("Payer name is required")
	case blank(in.Purpose):
		return nil, validationError("Purpose is required")
	case blank(in.PaymentMethod):
		return nil, validationError("Payment method is required")
	}

	linked := optional(in.LoanApplicationID)
	if linked != nil {
		app, err := s.apps.FindByID(ctx, *linked)
		if err != nil {
			return nil, notFound(err, "Loan application")
		}
		if !app.IsApproved() {
			return nil, invalidState("Can only generate receipts for approved applications")
		}
	}

	now := s.now()
	receipt := &models.Receipt{
		ReceiptType:       receiptType,
		Amount:            amount,
		PaymentMethod:     strings.TrimSpace(in.PaymentMethod),
		PaymentDetails:    optional(in.PaymentDetails),
		Purpose:           strings.TrimSpace(in.Purpose),
		PayerName:         strings.TrimSpace(in.PayerName),
		PayerAddress:      optional(in.PayerAddress),
		Remarks:           optional(in.Remarks),
		LoanApplicationID: linked,
		IssuedByID:        actor.UserID,
		IssuedAt:          now,
	}

	err := withUniqueRetry(ctx, "receipt number", func() error {
		return s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
			number, err := r.Receipt.NextReceiptNumber(ctx, prefix, now.Year())
			if err != nil {
				return fmt.Errorf("next receipt number: %w", err)
			}
			receipt.ReceiptNumber = number
			if err := r.Receipt.Create(ctx, receipt); err != nil {
				return err
			}
			return s.audit.Record(ctx, r.Audit, actor, models.EntityReceipt, receipt.ID, models.AuditActionCreate,
				map[string]interface{}{
					"receiptNumber":     receipt.ReceiptNumber,
					"receiptType":       receipt.ReceiptType,
					"amount":            receipt.Amount,
					"loanApplicationId": receipt.LoanApplicationID,
				})
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReceiptIssued(receipt.ReceiptType)
	logger.FromContext(ctx).Info("receipt issued", "id", receipt.ID, "number", receipt.ReceiptNumber, "amount", receipt.Amount)
	return s.Get(ctx, receipt.ID)
}

// Get returns a receipt with its linked application and issuer
func (s *ReceiptService) Get(ctx context.Context, id string) (*models.Receipt, error) {
	receipt, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Receipt")
	}
	return receipt, nil
}

// List returns one page of receipts, newest first. Voided receipts are hidden unless asked for.
func (s *ReceiptService) List(ctx context.Context, filter ReceiptFilter) ([]models.Receipt, models.Pagination, error) {
	query := filter.query()
	receipts, total, err := s.receipts.List(ctx, query)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, models.NewPagination(query.Page, query.PerPage, total), nil
}

// Void marks an issued receipt voided. A receipt can be voided once.
func (s *ReceiptService) Void(ctx context.Context, id, reason string, actor Actor) (*models.Receipt, error) {
	if err := actor.require(auth.CapVoidReceipts); err != nil {
		return nil, err
	}

	receipt, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Receipt")
	}

	now := s.now()
	reason = strings.TrimSpace(reason)
	if err := statemachine.NewReceiptFSM(receipt).Void(ctx, reason, now); err != nil {
		if errors.Is(err, statemachine.ErrTransitionNotAllowed) {
			return nil, invalidState("Receipt is already voided")
		}
		return nil, err
	}
	if reason == "" {
		return nil, validationError("Void reason is required")
	}

	err = s.tx.WithinTransaction(ctx, func(r *repository.Repositories) error {
		ok, err := r.Receipt.Void(ctx, id, reason, now)
		if err != nil {
			return fmt.Errorf("void receipt: %w", err)
		}
		if !ok {
			return invalidState("Receipt is already voided")
		}
		return s.audit.Record(ctx, r.Audit, actor, models.EntityReceipt, id, models.AuditActionVoid,
			Change{
				From:  models.ReceiptStateIssued,
				To:    models.ReceiptStateVoided,
				Extra: map[string]interface{}{"receiptNumber": receipt.ReceiptNumber, "reason": reason},
			})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReceiptVoided()
	logger.FromContext(ctx).Info("receipt voided", "id", id, "number", receipt.ReceiptNumber, "user_id", actor.UserID)
	return s.Get(ctx, id)
}
