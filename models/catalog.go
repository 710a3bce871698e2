package models

// Product is a purchasable training program or certification. Prices are
// GST-inclusive INR. Monthly products are billed per month of enrollment;
// flat products ignore duration.
type Product struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Monthly   bool    `json:"monthly"`
}

// AddOn is an optional extra purchased alongside a product.
type AddOn struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Selection is the client's choice of product, add-ons and duration.
type Selection struct {
	Type            string   `json:"type"`
	SelectedProduct string   `json:"selectedProduct"`
	SelectedAddon   []string `json:"selectedAddon"`
	SelectedMonths  int      `json:"selectedMonths"`
}
