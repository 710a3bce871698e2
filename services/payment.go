package services

import (
	"context"
	"time"

	apperrors "enrollment-module/errors"
	"enrollment-module/gateway"
	"enrollment-module/logger"
	"enrollment-module/models"
	"enrollment-module/services/kafka"
	"enrollment-module/utils"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes best-effort domain events.
type EventPublisher interface {
	Publish(topic, key string, value map[string]interface{}) error
}

// InvoiceMailer dispatches the invoice email without blocking the caller.
type InvoiceMailer interface {
	DispatchInvoice(order *models.EnrollmentOrder)
}

// PaymentService orchestrates the order lifecycle:
// price -> gateway order -> persist PROCESSING, and later
// signature check -> PROCESSING->SUCCESS -> invoice email.
type PaymentService struct {
	store    OrderStore
	gw       gateway.Client
	pricing  *PricingService
	mailer   InvoiceMailer
	events   EventPublisher
	validate *validator.Validate
	log      *logger.Logger
	gstRate  float64
}

// NewPaymentService wires the lifecycle controller.
func NewPaymentService(store OrderStore, gw gateway.Client, pricing *PricingService,
	mailer InvoiceMailer, events EventPublisher, gstRate float64, log *logger.Logger) *PaymentService {
	return &PaymentService{
		store:    store,
		gw:       gw,
		pricing:  pricing,
		mailer:   mailer,
		events:   events,
		validate: validator.New(),
		log:      log,
		gstRate:  gstRate,
	}
}

// StudentData is the applicant payload on order creation.
type StudentData struct {
	Name          string         `json:"name" validate:"required,max=100"`
	Email         string         `json:"email" validate:"required,email"`
	Phone         string         `json:"phone" validate:"required"`
	Address       string         `json:"address"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	Pincode       string         `json:"pincode"`
	IDDocType     string         `json:"idDocType"`
	IDDocNo       string         `json:"idDocNo"`
	DOB           utils.DOBInput `json:"dob"`
	TermsAgreed   bool           `json:"termsAgreed"`
	InfoCertified bool           `json:"infoCertified"`
}

// CreateOrderRequest is the body of POST /payments/create-order.
type CreateOrderRequest struct {
	Package *models.Selection `json:"packageData" validate:"required"`
	Student *StudentData      `json:"studentData" validate:"required"`
	Receipt string            `json:"receipt"`
}

// CreateOrderResponse returns the gateway order id, the public invoice
// link and the pricing breakdown.
type CreateOrderResponse struct {
	OrderID     string       `json:"order_id"`
	InvoiceLink string       `json:"invoice_link"`
	Currency    string       `json:"currency"`
	Pricing     models.Quote `json:"pricing"`
}

// CreateOrder validates, prices and registers a new enrollment order. All
// validation happens before the gateway call; the record is persisted only
// after the remote order exists, so the gateway order id is never empty on
// a stored record.
func (s *PaymentService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.E(apperrors.Invalid, "missing package or student data", err)
	}
	if err := utils.ValidatePhone(req.Student.Phone); err != nil {
		return nil, apperrors.E(apperrors.Invalid, err.Error())
	}
	if !req.Student.TermsAgreed || !req.Student.InfoCertified {
		return nil, apperrors.E(apperrors.Invalid, "terms must be agreed and information certified")
	}

	quote, err := s.pricing.PriceSelection(*req.Package)
	if err != nil {
		return nil, err
	}

	dob, err := utils.ParseDOB(req.Student.DOB)
	if err != nil {
		return nil, apperrors.E(apperrors.Invalid, err.Error())
	}

	now := time.Now()
	invoiceNo := utils.NewInvoiceNo(now)
	invoiceLink := utils.NewInvoiceLink()

	receipt := req.Receipt
	if receipt == "" {
		receipt = "rcpt_" + invoiceNo
	}

	gatewayOrderID, err := s.gw.CreateOrder(utils.ToPaise(quote.Total), "INR", receipt)
	if err != nil {
		return nil, err
	}

	_, gstAmount := utils.SplitInclusive(quote.Total, s.gstRate)

	months := req.Package.SelectedMonths
	if months < 1 {
		months = 1
	}

	order := &models.EnrollmentOrder{
		InvoiceNo:   invoiceNo,
		InvoiceLink: invoiceLink,

		Name:        req.Student.Name,
		Email:       req.Student.Email,
		Phone:       req.Student.Phone,
		Address:     req.Student.Address,
		City:        req.Student.City,
		State:       req.Student.State,
		Pincode:     req.Student.Pincode,
		IDDocType:   req.Student.IDDocType,
		IDDocNo:     req.Student.IDDocNo,
		DateOfBirth: dob,

		ProductType: req.Package.Type,
		ProductID:   req.Package.SelectedProduct,
		ProductName: quote.ProductName,
		Addons:      quote.Addons,
		Months:      months,

		UnitPrice:    quote.UnitPrice,
		ProgramPrice: quote.ProgramPrice,
		AddonPrice:   quote.AddonPrice,
		Subtotal:     quote.Subtotal,
		GSTRate:      s.gstRate,
		GSTAmount:    gstAmount,
		Total:        quote.Total,

		OrderID: gatewayOrderID,
		Status:  models.StatusProcessing,

		TermsAgreed:   req.Student.TermsAgreed,
		InfoCertified: req.Student.InfoCertified,
	}

	if err := s.store.Create(ctx, order); err != nil {
		// The remote order already exists and now has no local record. Log
		// the id so it can be reconciled against the gateway dashboard.
		s.log.Error("ORPHANED GATEWAY ORDER %s: record persistence failed: %v", gatewayOrderID, err)
		return nil, err
	}

	s.log.Info("Order created - Invoice: %s, Gateway order: %s, Total: %.2f",
		invoiceNo, gatewayOrderID, quote.Total)

	s.publish(kafka.TopicPayments, gatewayOrderID, map[string]interface{}{
		"event":    "payment.initiated",
		"order_id": gatewayOrderID,
		"invoice":  invoiceNo,
		"amount":   quote.Total,
		"currency": "INR",
		"status":   string(models.StatusProcessing),
		"ts":       now.UTC().Format(time.RFC3339),
	})

	return &CreateOrderResponse{
		OrderID:     gatewayOrderID,
		InvoiceLink: invoiceLink,
		Currency:    "INR",
		Pricing:     quote,
	}, nil
}

// VerifyPaymentRequest carries the gateway callback fields.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse is returned for both first and duplicate callbacks.
type VerifyPaymentResponse struct {
	PaymentID   string `json:"payment_id"`
	OrderID     string `json:"order_id"`
	InvoiceLink string `json:"invoice_link"`
}

// VerifyPayment checks the gateway signature and transitions the order to
// SUCCESS. Replays of the same callback return the same response without
// re-sending the invoice email; the transition itself is arbitrated by the
// store's conditional update, so concurrent duplicates cannot both win.
func (s *PaymentService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, apperrors.E(apperrors.Invalid, "missing order id, payment id or signature")
	}

	if !s.gw.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.log.Warn("Invalid payment signature for order %s", req.OrderID)
		return nil, apperrors.E(apperrors.Invalid, "Invalid signature")
	}

	order, won, err := s.store.MarkPaid(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if !won {
		s.log.Info("Duplicate payment callback for order %s, already SUCCESS", req.OrderID)
		return &VerifyPaymentResponse{
			PaymentID:   order.PaymentID,
			OrderID:     order.OrderID,
			InvoiceLink: order.InvoiceLink,
		}, nil
	}

	s.log.Info("Payment verified - Order: %s, Payment: %s, Invoice: %s",
		order.OrderID, order.PaymentID, order.InvoiceNo)

	// Best-effort side effect: the payment is confirmed regardless of email
	// outcome.
	s.mailer.DispatchInvoice(order)

	s.publish(kafka.TopicPayments, order.OrderID, map[string]interface{}{
		"event":      "payment.verified",
		"order_id":   order.OrderID,
		"payment_id": order.PaymentID,
		"invoice":    order.InvoiceNo,
		"status":     string(models.StatusSuccess),
		"ts":         time.Now().UTC().Format(time.RFC3339),
	})

	return &VerifyPaymentResponse{
		PaymentID:   order.PaymentID,
		OrderID:     order.OrderID,
		InvoiceLink: order.InvoiceLink,
	}, nil
}

func (s *PaymentService) publish(topic, key string, evt map[string]interface{}) {
	if s.events == nil {
		return
	}
	go func() {
		if err := s.events.Publish(topic, key, evt); err != nil {
			s.log.Warn("Failed to publish %s event: %v", evt["event"], err)
		}
	}()
}
