package models

import "time"

// PaymentStatus is the lifecycle state of an enrollment order.
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "PENDING"
	StatusProcessing PaymentStatus = "PROCESSING"
	StatusSuccess    PaymentStatus = "SUCCESS"
	StatusFailed     PaymentStatus = "FAILED"
	StatusRefunded   PaymentStatus = "REFUNDED"
)

// AddonItem is one purchased add-on as sold: id, name and price captured
// at order creation. Later catalog revisions never change it.
type AddonItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// EnrollmentOrder ties an applicant, a priced selection and a payment's
// lifecycle together. Pricing fields are a snapshot taken at order creation
// and are never updated afterwards.
type EnrollmentOrder struct {
	ID          int    `json:"id"`
	InvoiceNo   string `json:"invoice_no"`
	InvoiceLink string `json:"invoice_link"`

	// Applicant data
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	IDDocType   string    `json:"id_doc_type"`
	IDDocNo     string    `json:"id_doc_no"`
	DateOfBirth time.Time `json:"date_of_birth"`

	// Selection, with add-ons resolved and priced at creation
	ProductType string      `json:"product_type"`
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Addons      []AddonItem `json:"addons"`
	Months      int         `json:"months"`

	// Pricing snapshot (GST-inclusive INR amounts)
	UnitPrice    float64 `json:"unit_price"`
	ProgramPrice float64 `json:"program_price"`
	AddonPrice   float64 `json:"addon_price"`
	Subtotal     float64 `json:"subtotal"`
	GSTRate      float64 `json:"gst_rate"`
	GSTAmount    float64 `json:"gst_amount"`
	Total        float64 `json:"total"`

	// Payment fields
	OrderID     string        `json:"order_id"`
	PaymentID   string        `json:"payment_id,omitempty"`
	Status      PaymentStatus `json:"status"`
	PaymentDate *time.Time    `json:"payment_date,omitempty"`

	// Consent flags, required true at creation
	TermsAgreed   bool `json:"terms_agreed"`
	InfoCertified bool `json:"info_certified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quote is the output of the pricing calculator. All amounts are
// GST-inclusive; GST is never added on top of these figures. Addons holds
// only the add-ons that resolved, so it is the snapshot the order keeps.
type Quote struct {
	ProductName  string      `json:"product_name"`
	UnitPrice    float64     `json:"unit_price"`
	ProgramPrice float64     `json:"program_price"`
	AddonPrice   float64     `json:"addon_price"`
	Addons       []AddonItem `json:"addons,omitempty"`
	Subtotal     float64     `json:"subtotal"`
	Total        float64     `json:"total"`
}
