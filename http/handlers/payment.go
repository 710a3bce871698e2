package handlers

import (
	"encoding/json"
	"net/http"

	"enrollment-module/http/response"
	"enrollment-module/logger"
	"enrollment-module/services"
)

// PaymentHandler exposes the order-creation and verification endpoints.
type PaymentHandler struct {
	payments *services.PaymentService
	log      *logger.Logger
}

// NewPaymentHandler builds the payment handler.
func NewPaymentHandler(payments *services.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// CreateOrder handles POST /payments/create-order.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.payments.CreateOrder(r.Context(), req)
	if err != nil {
		h.log.Warn("Order creation failed: %v", err)
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Order created", resp)
}

// VerifyPayment handles POST /payments/verify.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.payments.VerifyPayment(r.Context(), req)
	if err != nil {
		h.log.Warn("Payment verification failed for order %s: %v", req.OrderID, err)
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Payment verified successfully", resp)
}
