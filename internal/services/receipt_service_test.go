package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type receiptFixture struct {
	receipts *mockReceiptRepo
	apps     *mockApplicationRepo
	audit    *mockAuditRepo
	tx       *mockTransactor
	svc      *ReceiptService
	stored   map[string]*models.Receipt
	prefixes []string
}

func newReceiptFixture() *receiptFixture {
	f := &receiptFixture{audit: &mockAuditRepo{}, stored: map[string]*models.Receipt{}}
	seq := map[string]int{}
	f.receipts = &mockReceiptRepo{
		mockNextNumber: func(ctx context.Context, prefix string, year int) (string, error) {
			f.prefixes = append(f.prefixes, prefix)
			seq[prefix]++
			return fmt.Sprintf("%s-%d-%05d", prefix, year, seq[prefix]), nil
		},
		mockCreate: func(ctx context.Context, receipt *models.Receipt) error {
			receipt.ID = fmt.Sprintf("rcpt-%d", len(f.stored)+1)
			copied := *receipt
			f.stored[receipt.ID] = &copied
			return nil
		},
		mockFindByID: func(ctx context.Context, id string) (*models.Receipt, error) {
			r, ok := f.stored[id]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			copied := *r
			return &copied, nil
		},
		mockVoid: func(ctx context.Context, id, reason string, at time.Time) (bool, error) {
			r, ok := f.stored[id]
			if !ok || r.VoidedAt != nil {
				return false, nil
			}
			r.VoidedAt = &at
			r.VoidedReason = &reason
			return true, nil
		},
	}
	f.apps = &mockApplicationRepo{
		mockFindByID: func(ctx context.Context, id string) (*models.LoanApplication, error) {
			switch id {
			case "approved":
				return &models.LoanApplication{ID: id, Status: models.ApplicationStatusApproved}, nil
			case "submitted":
				return &models.LoanApplication{ID: id, Status: models.ApplicationStatusSubmitted}, nil
			}
			return notFoundApp(ctx, id)
		},
	}
	f.tx = &mockTransactor{repos: &repository.Repositories{Receipt: f.receipts, Audit: f.audit}}
	f.svc = NewReceiptService(f.receipts, f.apps, f.tx, NewAuditService(), clock)
	return f
}

func validReceipt() ReceiptInput {
	return ReceiptInput{
		ReceiptType:   "OFFICIAL_RECEIPT",
		Amount:        Num(9166.666),
		PaymentMethod: "CASH",
		Purpose:       "Monthly amortization",
		PayerName:     "Juan Dela Cruz",
	}
}

func TestReceiptService_IssueOfficialReceipt(t *testing.T) {
	f := newReceiptFixture()
	in := validReceipt()
	linked := "approved"
	in.LoanApplicationID = &linked

	receipt, err := f.svc.Issue(context.Background(), in, processorActor())
	require.NoError(t, err)

	assert.Equal(t, "OR-2026-00001", receipt.ReceiptNumber)
	assert.Equal(t, 9166.67, receipt.Amount)
	assert.Equal(t, fixedNow, receipt.IssuedAt)
	assert.Equal(t, "proc-1", receipt.IssuedByID)
	assert.Equal(t, models.ReceiptStateIssued, receipt.State())
	assert.Equal(t, []string{"OR"}, f.prefixes)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, models.EntityReceipt, entry.EntityType)
	assert.Equal(t, models.AuditActionCreate, entry.Action)
	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(entry.Changes), &snapshot))
	assert.Equal(t, "OR-2026-00001", snapshot["receiptNumber"])
	assert.Equal(t, "approved", snapshot["loanApplicationId"])
}

func TestReceiptService_IssueCollectionReceiptUsesOwnSequence(t *testing.T) {
	f := newReceiptFixture()

	_, err := f.svc.Issue(context.Background(), validReceipt(), processorActor())
	require.NoError(t, err)

	in := validReceipt()
	in.ReceiptType = "collection_receipt"
	receipt, err := f.svc.Issue(context.Background(), in, processorActor())
	require.NoError(t, err)
	assert.Equal(t, "CR-2026-00001", receipt.ReceiptNumber)
	assert.Equal(t, models.ReceiptTypeCollection, receipt.ReceiptType)
}

func TestReceiptService_IssueValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *ReceiptInput)
		want   string
	}{
		{"type checked first", func(in *ReceiptInput) { in.ReceiptType = "INVOICE"; in.Amount = Number{} }, "Invalid receipt type"},
		{"missing amount", func(in *ReceiptInput) { in.Amount = Number{}; in.PayerName = "" }, "Valid amount is required"},
		{"negative amount", func(in *ReceiptInput) { in.Amount = Num(-5) }, "Valid amount is required"},
		{"rounds to zero", func(in *ReceiptInput) { in.Amount = Num(0.004) }, "Valid amount is required"},
		{"nan amount", func(in *ReceiptInput) { in.Amount = Num(math.NaN()) }, "Valid amount is required"},
		{"infinite amount", func(in *ReceiptInput) { in.Amount = Num(math.Inf(1)) }, "Valid amount is required"},
		{"missing payer", func(in *ReceiptInput) { in.PayerName = " "; in.Purpose = "" }, "Payer name is required"},
		{"missing purpose", func(in *ReceiptInput) { in.Purpose = "" }, "Purpose is required"},
		{"missing method", func(in *ReceiptInput) { in.PaymentMethod = "" }, "Payment method is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReceiptFixture()
			in := validReceipt()
			tt.mutate(&in)

			_, err := f.svc.Issue(context.Background(), in, processorActor())
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
			assert.EqualError(t, err, tt.want)
			assert.Empty(t, f.stored)
		})
	}
}

func TestReceiptService_IssueSmallestAmount(t *testing.T) {
	f := newReceiptFixture()
	in := validReceipt()
	in.Amount = Num(0.005)

	receipt, err := f.svc.Issue(context.Background(), in, processorActor())
	require.NoError(t, err)
	assert.Equal(t, 0.01, receipt.Amount)
}

func TestReceiptService_IssueLinkedApplication(t *testing.T) {
	f := newReceiptFixture()

	missing := "missing"
	in := validReceipt()
	in.LoanApplicationID = &missing
	_, err := f.svc.Issue(context.Background(), in, processorActor())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "Loan application not found")

	submitted := "submitted"
	in.LoanApplicationID = &submitted
	_, err = f.svc.Issue(context.Background(), in, processorActor())
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.EqualError(t, err, "Can only generate receipts for approved applications")

	blankID := "  "
	in.LoanApplicationID = &blankID
	receipt, err := f.svc.Issue(context.Background(), in, processorActor())
	require.NoError(t, err)
	assert.Nil(t, receipt.LoanApplicationID)
}

func TestReceiptService_IssueRequiresCapability(t *testing.T) {
	f := newReceiptFixture()
	_, err := f.svc.Issue(context.Background(), validReceipt(), Actor{})
	assert.True(t, errors.Is(err, ErrAuthenticationRequired))
	assert.Zero(t, f.tx.calls)
}

func TestReceiptService_Void(t *testing.T) {
	f := newReceiptFixture()
	issued, err := f.svc.Issue(context.Background(), validReceipt(), processorActor())
	require.NoError(t, err)
	f.audit.entries = nil

	t.Run("processor cannot void", func(t *testing.T) {
		_, err := f.svc.Void(context.Background(), issued.ID, "wrong payer", processorActor())
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("missing receipt", func(t *testing.T) {
		_, err := f.svc.Void(context.Background(), "nope", "wrong payer", adminActor())
		assert.EqualError(t, err, "Receipt not found")
	})

	t.Run("reason required", func(t *testing.T) {
		_, err := f.svc.Void(context.Background(), issued.ID, "  ", adminActor())
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Nil(t, f.stored[issued.ID].VoidedAt)
	})

	t.Run("voids once", func(t *testing.T) {
		voided, err := f.svc.Void(context.Background(), issued.ID, " wrong payer ", adminActor())
		require.NoError(t, err)
		assert.Equal(t, models.ReceiptStateVoided, voided.State())
		assert.Equal(t, "wrong payer", *voided.VoidedReason)
		assert.Equal(t, fixedNow, *voided.VoidedAt)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, models.AuditActionVoid, f.audit.entries[0].Action)
		var snapshot map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(f.audit.entries[0].Changes), &snapshot))
		assert.Equal(t, "ISSUED", snapshot["from"])
		assert.Equal(t, "VOIDED", snapshot["to"])
		assert.Equal(t, "wrong payer", snapshot["reason"])

		_, err = f.svc.Void(context.Background(), issued.ID, "again", adminActor())
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.EqualError(t, err, "Receipt is already voided")
	})
}

func TestReceiptService_VoidLostRace(t *testing.T) {
	f := newReceiptFixture()
	issued, err := f.svc.Issue(context.Background(), validReceipt(), processorActor())
	require.NoError(t, err)
	f.receipts.mockVoid = func(ctx context.Context, id, reason string, at time.Time) (bool, error) {
		return false, nil
	}

	_, err = f.svc.Void(context.Background(), issued.ID, "duplicate", adminActor())
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestReceiptService_ListPassesFilters(t *testing.T) {
	f := newReceiptFixture()
	var seen *repository.ListQuery
	f.receipts.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, int64, error) {
		seen = query
		return []models.Receipt{{ID: "r1"}}, 1, nil
	}

	receipts, page, err := f.svc.List(context.Background(), ReceiptFilter{Type: "official_receipt", Search: "juan", IncludeVoided: true})
	require.NoError(t, err)
	assert.Len(t, receipts, 1)
	assert.Equal(t, "OFFICIAL_RECEIPT", seen.Filters["type"])
	assert.Equal(t, "true", seen.Filters["include_voided"])
	assert.Equal(t, "juan", seen.Search)
	assert.Equal(t, 1, page.TotalPages)

	_, _, err = f.svc.List(context.Background(), ReceiptFilter{})
	require.NoError(t, err)
	_, set := seen.Filters["include_voided"]
	assert.False(t, set)
}
