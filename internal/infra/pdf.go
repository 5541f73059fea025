package infra

// pdf.go: daily closing report rendering using go-pdf/fpdf.
// One A4 page per closing:
//   - Date header and receivable/payable snapshot
//   - Totals block (orders, bottles, billed, collected, balance movement)
//   - Per-rider collection table
//   - Per-payment-method table
//
// The output file is saved to storagePath/closing_{date}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"aquadesk/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateClosingPDF renders the report for a saved daily closing.
// storagePath is created if needed. Returns the path of the generated file.
func GenerateClosingPDF(c *model.DailyClosing, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	date := c.ClosingDate.Format("2006-01-02")
	filePath := filepath.Join(storagePath, fmt.Sprintf("closing_%s.pdf", date))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// Header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "AquaDesk Daily Closing", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, date, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Ledger snapshot
	half := contentW / 2
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 6, "Customer receivable:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 6, "RS. "+c.CustomerReceivable.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 6, "Customer payable:", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 6, "RS. "+c.CustomerPayable.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// Totals
	rows := []struct{ label, value string }{
		{"Orders", fmt.Sprintf("%d", c.TotalOrders)},
		{"Bottles", fmt.Sprintf("%d", c.TotalBottles)},
		{"Billed today", "RS. " + c.TotalCurrentOrderAmount.StringFixed(2)},
		{"Collected today", "RS. " + c.TotalPaidAmount.StringFixed(2)},
		{"Balance movement", "RS. " + c.BalanceClearedToday.StringFixed(2)},
		{"Walk-in collected", "RS. " + c.WalkInAmount.StringFixed(2)},
		{"Clear-bill collected", "RS. " + c.ClearBillAmount.StringFixed(2)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(half, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Rider collections
	if len(c.RiderCollections) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Rider collections", "", 1, "L", false, 0, "")
		col1 := contentW * 0.5
		col2 := contentW * 0.2
		col3 := contentW * 0.3
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1, 6, "Rider", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Orders", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "Collected", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, rc := range c.RiderCollections {
			pdf.CellFormat(col1, 6, rc.RiderName, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, fmt.Sprintf("%d", rc.OrderCount), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 6, "RS. "+rc.Collected.StringFixed(2), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	// Payment methods
	if len(c.PaymentMethods) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, "Payment methods", "", 1, "L", false, 0, "")
		col1 := contentW * 0.5
		col2 := contentW * 0.2
		col3 := contentW * 0.3
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(col1, 6, "Method", "B", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "Orders", "B", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "Collected", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, mt := range c.PaymentMethods {
			pdf.CellFormat(col1, 6, string(mt.Method), "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 6, fmt.Sprintf("%d", mt.OrderCount), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 6, "RS. "+mt.Collected.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
