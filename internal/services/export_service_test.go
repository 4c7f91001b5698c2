package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func registerFixture() []models.Receipt {
	voidedAt := fixedNow.Add(time.Hour)
	reason := "Duplicate"
	return []models.Receipt{
		{
			ID: "r1", ReceiptNumber: "OR-2026-00001", ReceiptType: models.ReceiptTypeOfficial,
			Amount: 1500.50, PayerName: "Juan Dela Cruz", Purpose: "Amortization", PaymentMethod: "CASH",
			IssuedAt:        fixedNow,
			LoanApplication: &models.LoanApplication{ApplicationNumber: "LN-2026-00001"},
			IssuedBy:        &models.User{FirstName: "Ana", LastName: "Reyes"},
		},
		{
			ID: "r2", ReceiptNumber: "CR-2026-00001", ReceiptType: models.ReceiptTypeCollection,
			Amount: 250, PayerName: "Maria Santos", Purpose: "Fee", PaymentMethod: "GCASH",
			IssuedAt: fixedNow,
		},
		{
			ID: "r3", ReceiptNumber: "OR-2026-00002", ReceiptType: models.ReceiptTypeOfficial,
			Amount: 999, PayerName: "Pedro Cruz", Purpose: "Fee", PaymentMethod: "CASH",
			IssuedAt: fixedNow, VoidedAt: &voidedAt, VoidedReason: &reason,
		},
	}
}

func newExportFixture() (*ExportService, *mockReceiptRepo) {
	rows := registerFixture()
	repo := &mockReceiptRepo{
		mockListAll: func(ctx context.Context, query *repository.ListQuery) ([]models.Receipt, error) {
			return rows, nil
		},
		mockFindByID: func(ctx context.Context, id string) (*models.Receipt, error) {
			for i := range rows {
				if rows[i].ID == id {
					return &rows[i], nil
				}
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	return NewExportService(repo, staticSettings(DefaultSettings()), clock), repo
}

func TestExportService_CSV(t *testing.T) {
	svc, _ := newExportFixture()

	doc, err := svc.ExportReceipts(context.Background(), ReceiptFilter{IncludeVoided: true}, "")
	require.NoError(t, err)
	assert.Equal(t, "receipts_2026-03-14.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)

	records, err := csv.NewReader(bytes.NewReader(doc.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, registerHeader, records[0])
	assert.Equal(t, "OR-2026-00001", records[1][0])
	assert.Equal(t, "LN-2026-00001", records[1][7])
	assert.Equal(t, "Ana Reyes", records[1][8])
	assert.Equal(t, "VOIDED", records[3][9])
	assert.Equal(t, "Duplicate", records[3][10])
	assert.Equal(t, "Total", records[4][0])
	assert.Equal(t, "1750.50", records[4][6], "voided receipts are left out of the total")
	for _, record := range records {
		assert.Len(t, record, len(registerHeader))
	}
}

func TestExportService_XLSX(t *testing.T) {
	svc, _ := newExportFixture()

	doc, err := svc.ExportReceipts(context.Background(), ReceiptFilter{}, "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "receipts_2026-03-14.xlsx", doc.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Receipts")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Receipt Number", rows[0][0])
	assert.Equal(t, "CR-2026-00001", rows[2][0])
	assert.Equal(t, "Total", rows[4][0])

	total, err := book.GetCellValue("Receipts", "G5", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1750.5", total)
}

func TestExportService_RejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture()
	_, err := svc.ExportReceipts(context.Background(), ReceiptFilter{}, "pdf")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestExportService_ReceiptPDF(t *testing.T) {
	svc, _ := newExportFixture()

	doc, err := svc.ReceiptPDF(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "OR-2026-00001.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF")))

	voided, err := svc.ReceiptPDF(context.Background(), "r3")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(voided.Body, []byte("%PDF")))

	_, err = svc.ReceiptPDF(context.Background(), "missing")
	assert.EqualError(t, err, "Receipt not found")
}
