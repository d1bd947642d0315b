package domain

import "time"

// RawListing carries the fields a supplier adapter scraped from one search
// result. Values are passed to the product builder as-is.
type RawListing struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Price          any            `json:"price,omitempty"`
	Pricing        string         `json:"pricing,omitempty"`
	CurrencyCode   string         `json:"currencyCode,omitempty"`
	CurrencySymbol string         `json:"currencySymbol,omitempty"`
	Quantity       string         `json:"quantity,omitempty"`
	UOM            string         `json:"uom,omitempty"`
	CAS            string         `json:"cas,omitempty"`
	Formula        string         `json:"formula,omitempty"`
	Grade          string         `json:"grade,omitempty"`
	Description    string         `json:"description,omitempty"`
	Availability   any            `json:"availability,omitempty"`
	ID             any            `json:"id,omitempty"`
	UUID           string         `json:"uuid,omitempty"`
	SKU            string         `json:"sku,omitempty"`
	Vendor         string         `json:"vendor,omitempty"`
	Variants       []Variant      `json:"variants,omitempty"`
	Raw            map[string]any `json:"raw,omitempty"`
}

// SupplierInfo describes the supplier a batch of listings came from
type SupplierInfo struct {
	Name           string        `json:"name" binding:"required"`
	BaseURL        string        `json:"baseURL" binding:"required"`
	Country        string        `json:"country,omitempty"`
	Shipping       ShippingRange `json:"shipping,omitempty"`
	PaymentMethods []string      `json:"paymentMethods,omitempty"`
}

// BuildRequest is a batch of raw listings from one supplier search
type BuildRequest struct {
	Query    string       `json:"query,omitempty"`
	Supplier SupplierInfo `json:"supplier" binding:"required"`
	Listings []RawListing `json:"listings" binding:"required"`
}

// BuildResult reports the products that survived a batch build
type BuildResult struct {
	Products []Product `json:"products"`
	Skipped  int       `json:"skipped"`
}

// Snapshot is a stored set of builder dumps for one supplier
type Snapshot struct {
	ID        string         `json:"id"`
	BaseURL   string         `json:"baseURL"`
	Drafts    []ProductDraft `json:"drafts"`
	CreatedAt time.Time      `json:"createdAt"`
}
