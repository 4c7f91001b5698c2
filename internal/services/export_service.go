package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/cvmfinance/orcr-api/internal/models"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Document is a rendered file ready to be sent to the client
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the receipt register and printable receipts
type ExportService struct {
	receipts repository.ReceiptRepository
	settings SettingsReader
	now      func() time.Time
}

func NewExportService(receipts repository.ReceiptRepository, settings SettingsReader, now func() time.Time) *ExportService {
	if now == nil {
		now = time.Now
	}
	return &ExportService{receipts: receipts, settings: settings, now: now}
}

var registerHeader = []string{
	"Receipt Number", "Type", "Issued At", "Payer", "Purpose", "Payment Method",
	"Amount", "Application Number", "Issued By", "Status", "Void Reason",
}

func registerRow(r *models.Receipt) []string {
	appNumber := ""
	if r.LoanApplication != nil {
		appNumber = r.LoanApplication.ApplicationNumber
	}
	issuer := ""
	if r.IssuedBy != nil {
		issuer = r.IssuedBy.FullName()
	}
	reason := ""
	if r.VoidedReason != nil {
		reason = *r.VoidedReason
	}
	return []string{
		r.ReceiptNumber,
		r.ReceiptType,
		r.IssuedAt.Format("2006-01-02 15:04"),
		r.PayerName,
		r.Purpose,
		r.PaymentMethod,
		fmt.Sprintf("%.2f", r.Amount),
		appNumber,
		issuer,
		r.State(),
		reason,
	}
}

// ExportReceipts renders every receipt matching filter, ignoring pagination
func (s *ExportService) ExportReceipts(ctx context.Context, filter ReceiptFilter, format string) (*Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, validationError("Format must be csv or xlsx")
	}

	receipts, err := s.receipts.ListAll(ctx, filter.query())
	if err != nil {
		return nil, fmt.Errorf("list receipts for export: %w", err)
	}

	if format == FormatXLSX {
		return s.ExportXLSX(ctx, receipts)
	}
	return s.ExportCSV(ctx, receipts)
}

func (s *ExportService) ExportCSV(ctx context.Context, receipts []models.Receipt) (*Document, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write(registerHeader)
	var total float64
	for i := range receipts {
		_ = writer.Write(registerRow(&receipts[i]))
		if !receipts[i].IsVoided() {
			total += receipts[i].Amount
		}
	}
	totalRow := make([]string, len(registerHeader))
	totalRow[0] = "Total"
	totalRow[6] = fmt.Sprintf("%.2f", total)
	_ = writer.Write(totalRow)

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &Document{
		Filename:    fmt.Sprintf("receipts_%s.csv", s.now().Format("2006-01-02")),
		ContentType: "text/csv",
		Body:        buf.Bytes(),
	}, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, receipts []models.Receipt) (*Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Receipts"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00

	for col, title := range registerHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(registerHeader))
	_ = f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	var total float64
	for i := range receipts {
		row := i + 2
		values := registerRow(&receipts[i])
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if col == 6 {
				_ = f.SetCellValue(sheet, cell, receipts[i].Amount)
				continue
			}
			_ = f.SetCellValue(sheet, cell, v)
		}
		if !receipts[i].IsVoided() {
			total += receipts[i].Amount
		}
	}

	totalRow := len(receipts) + 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", totalRow), total)
	_ = f.SetCellStyle(sheet, "G2", fmt.Sprintf("G%d", totalRow), amountStyle)
	_ = f.SetColWidth(sheet, "A", lastCol, 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return &Document{
		Filename:    fmt.Sprintf("receipts_%s.xlsx", s.now().Format("2006-01-02")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        buf.Bytes(),
	}, nil
}

// ReceiptPDF renders one printable receipt. Voided receipts carry a VOID stamp.
func (s *ExportService) ReceiptPDF(ctx context.Context, id string) (*Document, error) {
	receipt, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Receipt")
	}
	settings := s.settings.Get(ctx)

	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(settings.CompanyName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, tr(settings.ContactEmail+"  |  "+settings.ContactPhone), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	title := "OFFICIAL RECEIPT"
	if receipt.ReceiptType == models.ReceiptTypeCollection {
		title = "COLLECTION RECEIPT"
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, tr(value), "", "L", false)
	}

	line("No.:", receipt.ReceiptNumber)
	line("Date:", receipt.IssuedAt.Format("January 2, 2006"))
	line("Received from:", receipt.PayerName)
	if receipt.PayerAddress != nil {
		line("Address:", *receipt.PayerAddress)
	}
	line("Amount:", fmt.Sprintf("PHP %.2f", receipt.Amount))
	line("In words:", AmountInWords(receipt.Amount))
	line("Purpose:", receipt.Purpose)
	line("Payment method:", receipt.PaymentMethod)
	if receipt.PaymentDetails != nil {
		line("Details:", *receipt.PaymentDetails)
	}
	if receipt.LoanApplication != nil {
		line("Application:", receipt.LoanApplication.ApplicationNumber)
	}
	if receipt.Remarks != nil {
		line("Remarks:", *receipt.Remarks)
	}
	pdf.Ln(10)

	issuer := ""
	if receipt.IssuedBy != nil {
		issuer = receipt.IssuedBy.FullName()
	}
	pdf.CellFormat(0, 6, "______________________________", "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, tr(issuer), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Authorized signature", "", 1, "R", false, 0, "")

	if receipt.IsVoided() {
		pdf.SetTextColor(200, 0, 0)
		pdf.SetFont("Arial", "B", 48)
		pdf.TransformBegin()
		pdf.TransformRotate(30, 74, 105)
		pdf.Text(40, 110, "VOID")
		pdf.TransformEnd()
		pdf.SetTextColor(0, 0, 0)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}

	return &Document{
		Filename:    fmt.Sprintf("%s.pdf", receipt.ReceiptNumber),
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}
