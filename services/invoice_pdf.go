package services

import (
	"fmt"
	"os"
	"path/filepath"

	"enrollment-module/models"

	"github.com/jung-kurt/gofpdf"
)

// GenerateInvoicePDF renders an invoice view to a PDF file and returns its
// path. The caller owns cleanup of the file.
func GenerateInvoicePDF(view *models.InvoiceView, student *models.InvoiceStudent) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(40, 10, "Tax Invoice")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, fmt.Sprintf("Invoice No: %s", view.InvoiceNo))
	pdf.Ln(8)
	pdf.Cell(40, 8, fmt.Sprintf("Date: %s", view.Date))
	pdf.Ln(8)
	pdf.Cell(40, 8, fmt.Sprintf("Order: %s    Payment: %s", view.OrderID, view.PaymentID))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, "Billed To")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, student.Name)
	pdf.Ln(8)
	pdf.Cell(40, 8, fmt.Sprintf("%s, %s %s %s", student.Address, student.City, student.State, student.Pincode))
	pdf.Ln(8)
	pdf.Cell(40, 8, student.Email)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, "Excl. GST", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "GST", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, line := range view.Lines {
		desc := line.Description
		if line.Months > 1 {
			desc = fmt.Sprintf("%s (%d months)", desc, line.Months)
		}
		pdf.CellFormat(80, 8, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.Exclusive), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.GST), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.Inclusive), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 8, fmt.Sprintf("Total (incl. %.0f%% GST)", view.GSTRate), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("INR %.2f", view.Total), "1", 1, "R", false, 0, "")

	fileName := filepath.Join(os.TempDir(), fmt.Sprintf("invoice_%s.pdf", view.InvoiceNo))
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", fmt.Errorf("error generating invoice PDF: %w", err)
	}

	return fileName, nil
}
