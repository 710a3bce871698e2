package catalog

import (
	"testing"

	"enrollment-module/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	c := Default()

	p, ok := c.Lookup("program", "fullstack")
	require.True(t, ok)
	assert.Equal(t, "Full Stack Development", p.Name)
	assert.True(t, p.Monthly)
	assert.Equal(t, 500.0, p.UnitPrice)

	cert, ok := c.Lookup("certification", "cloud-practitioner")
	require.True(t, ok)
	assert.False(t, cert.Monthly)

	_, ok = c.Lookup("program", "cloud-practitioner")
	assert.False(t, ok, "id must be scoped to its type")

	_, ok = c.Lookup("bootcamp", "fullstack")
	assert.False(t, ok)
}

func TestAddOn(t *testing.T) {
	c := Default()

	a, ok := c.AddOn("mentorship")
	require.True(t, ok)
	assert.Equal(t, 999.0, a.Price)

	_, ok = c.AddOn("does-not-exist")
	assert.False(t, ok)
}

func TestProductsGroupedByType(t *testing.T) {
	c := New(
		[]models.Product{
			{ID: "a", Type: "program", Name: "A", UnitPrice: 100, Monthly: true},
			{ID: "b", Type: "program", Name: "B", UnitPrice: 200, Monthly: true},
			{ID: "c", Type: "certification", Name: "C", UnitPrice: 300},
		},
		nil,
	)

	grouped := c.Products()
	assert.Len(t, grouped["program"], 2)
	assert.Len(t, grouped["certification"], 1)
}

func TestAddOnsListing(t *testing.T) {
	c := Default()
	addons := c.AddOns()
	assert.Len(t, addons, 3)
}
