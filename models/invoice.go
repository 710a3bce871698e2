package models

// InvoiceLine is one priced row on an invoice. Exclusive and GST are
// back-computed from the stored GST-inclusive amount for display.
type InvoiceLine struct {
	Description string  `json:"description"`
	Months      int     `json:"months,omitempty"`
	Exclusive   float64 `json:"exclusive"`
	GST         float64 `json:"gst"`
	Inclusive   float64 `json:"inclusive"`
}

// InvoiceView is the read-only projection of a paid enrollment order.
// It is never stored; it only materializes once the order status is SUCCESS.
type InvoiceView struct {
	InvoiceNo   string        `json:"invoice_no"`
	InvoiceLink string        `json:"invoice_link"`
	Date        string        `json:"date"`
	OrderID     string        `json:"order_id"`
	PaymentID   string        `json:"payment_id"`
	Lines       []InvoiceLine `json:"lines"`
	Subtotal    float64       `json:"subtotal"`
	GSTRate     float64       `json:"gst_rate"`
	GSTAmount   float64       `json:"gst_amount"`
	Total       float64       `json:"total"`
}

// InvoiceStudent is the applicant block rendered next to the invoice.
type InvoiceStudent struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}
