package handlers

import (
	"net/http"

	"enrollment-module/catalog"
	"enrollment-module/http/response"
)

// CatalogHandler serves the product catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler builds the catalog handler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// List handles GET /catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "", map[string]interface{}{
		"products": h.catalog.Products(),
		"addons":   h.catalog.AddOns(),
	})
}
