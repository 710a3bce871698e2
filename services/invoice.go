package services

import (
	"context"
	"fmt"

	apperrors "enrollment-module/errors"
	"enrollment-module/models"
	"enrollment-module/utils"
)

// InvoiceService projects paid enrollment orders into display invoices.
// Every amount and add-on line comes from the order's pricing snapshot;
// the live catalog is never consulted, so later price revisions or retired
// add-ons cannot change an issued invoice. Stored amounts are
// GST-inclusive; the exclusive/GST split shown on each line is
// back-computed at read time, and the summed exclusive lines may differ
// from exclusive(total) by a rupee.
type InvoiceService struct {
	store OrderStore
}

// NewInvoiceService builds the invoice projection service.
func NewInvoiceService(store OrderStore) *InvoiceService {
	return &InvoiceService{store: store}
}

// GetByLink resolves the public invoice-link token. Unknown tokens and
// orders that have not reached SUCCESS both answer "not found" so unpaid
// order contents are never revealed.
func (s *InvoiceService) GetByLink(ctx context.Context, invoiceLink string) (*models.InvoiceView, *models.InvoiceStudent, error) {
	order, err := s.store.FindByInvoiceLink(ctx, invoiceLink)
	if err != nil {
		return nil, nil, err
	}

	if order.Status != models.StatusSuccess {
		return nil, nil, apperrors.E(apperrors.NotFound, "invoice not found")
	}

	view := s.BuildView(order)
	student := &models.InvoiceStudent{
		Name:    order.Name,
		Email:   order.Email,
		Phone:   order.Phone,
		Address: order.Address,
		City:    order.City,
		State:   order.State,
		Pincode: order.Pincode,
	}
	return view, student, nil
}

// BuildView reshapes a paid order into its invoice projection.
func (s *InvoiceService) BuildView(order *models.EnrollmentOrder) *models.InvoiceView {
	var lines []models.InvoiceLine

	programDesc := order.ProductName
	if programDesc == "" {
		programDesc = order.ProductID
	}
	excl, gst := utils.SplitInclusive(order.ProgramPrice, order.GSTRate)
	lines = append(lines, models.InvoiceLine{
		Description: programDesc,
		Months:      order.Months,
		Exclusive:   excl,
		GST:         gst,
		Inclusive:   order.ProgramPrice,
	})

	// One line per purchased add-on, priced from the snapshot
	for _, addon := range order.Addons {
		excl, gst := utils.SplitInclusive(addon.Price, order.GSTRate)
		lines = append(lines, models.InvoiceLine{
			Description: addon.Name,
			Exclusive:   excl,
			GST:         gst,
			Inclusive:   addon.Price,
		})
	}

	date := order.CreatedAt.Format("02 Jan 2006")
	if order.PaymentDate != nil {
		date = order.PaymentDate.Format("02 Jan 2006")
	}

	return &models.InvoiceView{
		InvoiceNo:   order.InvoiceNo,
		InvoiceLink: order.InvoiceLink,
		Date:        date,
		OrderID:     order.OrderID,
		PaymentID:   order.PaymentID,
		Lines:       lines,
		Subtotal:    order.Subtotal,
		GSTRate:     order.GSTRate,
		GSTAmount:   order.GSTAmount,
		Total:       order.Total,
	}
}

// ResolveForEmail looks up a paid order by invoice link for re-sending
// the invoice mail. Only SUCCESS orders are eligible.
func (s *InvoiceService) ResolveForEmail(ctx context.Context, invoiceLink string) (*models.EnrollmentOrder, error) {
	order, err := s.store.FindByInvoiceLink(ctx, invoiceLink)
	if err != nil {
		return nil, err
	}
	if order.Status != models.StatusSuccess {
		return nil, apperrors.E(apperrors.NotFound, fmt.Sprintf("invoice %s not found", invoiceLink))
	}
	return order, nil
}
