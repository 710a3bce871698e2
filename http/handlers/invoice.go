package handlers

import (
	"encoding/json"
	"net/http"

	"enrollment-module/http/response"
	"enrollment-module/logger"
	"enrollment-module/services"
	"enrollment-module/utils"
)

// InvoiceHandler exposes invoice lookup and email re-dispatch.
type InvoiceHandler struct {
	invoices *services.InvoiceService
	mailer   *services.EmailService
	log      *logger.Logger
}

// NewInvoiceHandler builds the invoice handler.
func NewInvoiceHandler(invoices *services.InvoiceService, mailer *services.EmailService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, mailer: mailer, log: log}
}

// Get handles GET /invoices/{invoiceLink}.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoiceLink := r.PathValue("invoiceLink")
	if invoiceLink == "" {
		response.Error(w, http.StatusBadRequest, "invoice link is required")
		return
	}

	view, student, err := h.invoices.GetByLink(r.Context(), invoiceLink)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"invoice": view,
		"student": student,
	})
}

// Send handles POST /invoices/send: re-dispatches the invoice email.
// Returns 200 on dispatch attempt; delivery itself stays best-effort.
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentEmail string `json:"studentEmail"`
		InvoiceLink  string `json:"invoiceLink"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.InvoiceLink == "" {
		response.Error(w, http.StatusBadRequest, "invoiceLink is required")
		return
	}
	if req.StudentEmail != "" {
		if err := utils.ValidateEmail(req.StudentEmail); err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	order, err := h.invoices.ResolveForEmail(r.Context(), req.InvoiceLink)
	if err != nil {
		response.FromError(w, err)
		return
	}

	// Optional recipient override; the stored applicant email is the default
	if req.StudentEmail != "" {
		order.Email = req.StudentEmail
	}

	h.mailer.DispatchInvoice(order)
	h.log.Info("Invoice email dispatch requested for %s", order.InvoiceNo)

	response.Success(w, http.StatusOK, "Invoice email dispatched", nil)
}
