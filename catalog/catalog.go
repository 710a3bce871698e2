package catalog

import "enrollment-module/models"

// Catalog is the read-only reference set of products and add-ons. Lookups
// return a (value, ok) pair; callers never see a nil product.
type Catalog struct {
	products map[string]map[string]models.Product // type -> id -> product
	addons   map[string]models.AddOn
}

// Default returns the catalog the platform currently sells. Prices are
// GST-inclusive INR.
func Default() *Catalog {
	return New(
		[]models.Product{
			{ID: "fullstack", Type: "program", Name: "Full Stack Development", UnitPrice: 500, Monthly: true},
			{ID: "datascience", Type: "program", Name: "Data Science", UnitPrice: 650, Monthly: true},
			{ID: "devops", Type: "program", Name: "DevOps Engineering", UnitPrice: 450, Monthly: true},
			{ID: "cloud-practitioner", Type: "certification", Name: "Cloud Practitioner Certification", UnitPrice: 4999, Monthly: false},
			{ID: "security-analyst", Type: "certification", Name: "Security Analyst Certification", UnitPrice: 5999, Monthly: false},
		},
		[]models.AddOn{
			{ID: "mentorship", Name: "1:1 Mentorship", Price: 999},
			{ID: "placement", Name: "Placement Assistance", Price: 1499},
			{ID: "lab-access", Name: "Cloud Lab Access", Price: 499},
		},
	)
}

// New builds a catalog from explicit product and add-on sets.
func New(products []models.Product, addons []models.AddOn) *Catalog {
	c := &Catalog{
		products: make(map[string]map[string]models.Product),
		addons:   make(map[string]models.AddOn),
	}
	for _, p := range products {
		byID, ok := c.products[p.Type]
		if !ok {
			byID = make(map[string]models.Product)
			c.products[p.Type] = byID
		}
		byID[p.ID] = p
	}
	for _, a := range addons {
		c.addons[a.ID] = a
	}
	return c
}

// Lookup resolves a product by type and id.
func (c *Catalog) Lookup(productType, id string) (models.Product, bool) {
	byID, ok := c.products[productType]
	if !ok {
		return models.Product{}, false
	}
	p, ok := byID[id]
	return p, ok
}

// AddOn resolves an add-on by id.
func (c *Catalog) AddOn(id string) (models.AddOn, bool) {
	a, ok := c.addons[id]
	return a, ok
}

// Products lists all products, grouped by type.
func (c *Catalog) Products() map[string][]models.Product {
	out := make(map[string][]models.Product, len(c.products))
	for t, byID := range c.products {
		for _, p := range byID {
			out[t] = append(out[t], p)
		}
	}
	return out
}

// AddOns lists all add-ons.
func (c *Catalog) AddOns() []models.AddOn {
	out := make([]models.AddOn, 0, len(c.addons))
	for _, a := range c.addons {
		out = append(out, a)
	}
	return out
}
