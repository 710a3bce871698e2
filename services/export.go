package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportService writes all enrollment orders to a spreadsheet for
// back-office reporting.
type ExportService struct {
	store OrderStore
}

// NewExportService builds the export service.
func NewExportService(store OrderStore) *ExportService {
	return &ExportService{store: store}
}

var exportHeaders = []string{
	"Invoice No", "Name", "Email", "Phone", "Program", "Months",
	"Program Price", "Addon Price", "GST Amount", "Total", "Status",
	"Gateway Order ID", "Payment ID", "Paid At",
}

// WriteOrders streams an .xlsx of every order to w.
func (s *ExportService) WriteOrders(ctx context.Context, w io.Writer) error {
	orders, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, order := range orders {
		row := i + 2
		paidAt := ""
		if order.PaymentDate != nil {
			paidAt = order.PaymentDate.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			order.InvoiceNo, order.Name, order.Email, order.Phone,
			order.ProductName, order.Months,
			order.ProgramPrice, order.AddonPrice, order.GSTAmount, order.Total,
			string(order.Status), order.OrderID, order.PaymentID, paidAt,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing orders export: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
