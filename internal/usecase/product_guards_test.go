package usecase

import (
	"math"
	"testing"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func validDraft() domain.ProductDraft {
	return domain.ProductDraft{PartialProduct: domain.PartialProduct{
		Title:        "Sodium Chloride",
		URL:          "https://example.com/nacl",
		Supplier:     "Acme",
		Price:        ptr(10),
		USDPrice:     ptr(10),
		Quantity:     ptr(500),
		UOM:          "g",
		CurrencyCode: "USD",
	}}
}

func TestIsMinimalProduct(t *testing.T) {
	assert.False(t, IsMinimalProduct(nil))
	assert.False(t, IsMinimalProduct(&domain.ProductDraft{}))

	d := validDraft()
	assert.True(t, IsMinimalProduct(&d))

	d.Supplier = "  "
	assert.False(t, IsMinimalProduct(&d))
}

func TestIsValidVariant(t *testing.T) {
	assert.False(t, IsValidVariant(nil))
	assert.False(t, IsValidVariant(&domain.Variant{Title: "only a title"}))
	assert.True(t, IsValidVariant(&domain.Variant{Price: ptr(1)}))
	assert.True(t, IsValidVariant(&domain.Variant{Quantity: ptr(1)}))
}

func TestIsProduct(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *domain.ProductDraft)
		want   bool
	}{
		{"valid", func(d *domain.ProductDraft) {}, true},
		{"zero price is allowed", func(d *domain.ProductDraft) { d.Price = ptr(0) }, true},
		{"missing price", func(d *domain.ProductDraft) { d.Price = nil }, false},
		{"negative price", func(d *domain.ProductDraft) { d.Price = ptr(-1) }, false},
		{"NaN usd price", func(d *domain.ProductDraft) { d.USDPrice = ptr(math.NaN()) }, false},
		{"infinite quantity", func(d *domain.ProductDraft) { d.Quantity = ptr(math.Inf(1)) }, false},
		{"missing uom", func(d *domain.ProductDraft) { d.UOM = "" }, false},
		{"missing currency", func(d *domain.ProductDraft) { d.CurrencyCode = "" }, false},
		{"known availability", func(d *domain.ProductDraft) { d.Availability = domain.AvailabilityInStock }, true},
		{"unknown availability", func(d *domain.ProductDraft) { d.Availability = "MAYBE" }, false},
		{"match in range", func(d *domain.ProductDraft) { d.MatchPercentage = ptr(100) }, true},
		{"match out of range", func(d *domain.ProductDraft) { d.MatchPercentage = ptr(-0.5) }, false},
		{"missing title", func(d *domain.ProductDraft) { d.Title = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.modify(&d)
			assert.Equal(t, tt.want, IsProduct(&d))
		})
	}
}

func TestIsAvailability(t *testing.T) {
	for _, a := range domain.Availabilities {
		assert.True(t, IsAvailability(a))
		assert.True(t, IsAvailability(string(a)))
	}
	assert.False(t, IsAvailability("in stock"))
	assert.False(t, IsAvailability(1))
}
