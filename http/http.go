package http

import (
	"net/http"

	"enrollment-module/http/handlers"
	"enrollment-module/http/middleware"
	"enrollment-module/http/response"
	"enrollment-module/services"
)

// Handlers groups the constructed handler set for routing.
type Handlers struct {
	Payment *handlers.PaymentHandler
	Invoice *handlers.InvoiceHandler
	Auth    *handlers.AuthHandler
	Catalog *handlers.CatalogHandler
	Export  *handlers.ExportHandler

	AuthService *services.AuthService
}

// NewRouter configures all HTTP routes and middleware.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Payment APIs
	mux.HandleFunc("POST /payments/create-order", middleware.EnableCORS(h.Payment.CreateOrder))
	mux.HandleFunc("POST /payments/verify", middleware.EnableCORS(h.Payment.VerifyPayment))

	// Invoice APIs
	mux.HandleFunc("GET /invoices/{invoiceLink}", middleware.EnableCORS(h.Invoice.Get))
	mux.HandleFunc("POST /invoices/send", middleware.EnableCORS(h.Invoice.Send))

	// Catalog API
	mux.HandleFunc("GET /catalog", middleware.EnableCORS(h.Catalog.List))

	// Account APIs
	mux.HandleFunc("POST /auth/register", middleware.EnableCORS(h.Auth.Register))
	mux.HandleFunc("POST /auth/login", middleware.EnableCORS(h.Auth.Login))

	// Back-office reporting (JWT-guarded)
	mux.HandleFunc("GET /orders/export",
		middleware.EnableCORS(middleware.RequireAuth(h.AuthService, h.Export.Orders)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
