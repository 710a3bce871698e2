package services

import (
	"fmt"

	"enrollment-module/catalog"
	apperrors "enrollment-module/errors"
	"enrollment-module/models"
	"enrollment-module/utils"
)

// PricingService derives a quote from the catalog and a selection. It is a
// pure function of its inputs: no side effects and no GST arithmetic —
// catalog prices are GST-inclusive, so the total never grows past the
// subtotal.
type PricingService struct {
	catalog *catalog.Catalog
}

// NewPricingService creates a pricing calculator over the given catalog.
func NewPricingService(c *catalog.Catalog) *PricingService {
	return &PricingService{catalog: c}
}

// PriceSelection resolves and prices a selection. Unknown product types or
// ids fail closed; there is no default pricing. Add-on ids that don't
// resolve are skipped.
func (s *PricingService) PriceSelection(sel models.Selection) (models.Quote, error) {
	product, ok := s.catalog.Lookup(sel.Type, sel.SelectedProduct)
	if !ok {
		return models.Quote{}, apperrors.E(apperrors.Invalid,
			fmt.Sprintf("product not found: %s/%s", sel.Type, sel.SelectedProduct))
	}

	months := sel.SelectedMonths
	if months < 1 {
		months = 1
	}

	programPrice := product.UnitPrice
	if product.Monthly {
		programPrice = product.UnitPrice * float64(months)
	}

	var addonPrice float64
	var addons []models.AddonItem
	for _, id := range sel.SelectedAddon {
		addon, ok := s.catalog.AddOn(id)
		if !ok {
			continue
		}
		addonPrice += addon.Price
		addons = append(addons, models.AddonItem{ID: addon.ID, Name: addon.Name, Price: addon.Price})
	}

	programPrice = utils.Round2(programPrice)
	addonPrice = utils.Round2(addonPrice)
	subtotal := utils.Round2(programPrice + addonPrice)

	return models.Quote{
		ProductName:  product.Name,
		UnitPrice:    product.UnitPrice,
		ProgramPrice: programPrice,
		AddonPrice:   addonPrice,
		Addons:       addons,
		Subtotal:     subtotal,
		Total:        subtotal,
	}, nil
}
