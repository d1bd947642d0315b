package domain

// Availability is the stock status of a supplier listing
type Availability string

const (
	AvailabilityInStock      Availability = "IN_STOCK"
	AvailabilityOutOfStock   Availability = "OUT_OF_STOCK"
	AvailabilityPreOrder     Availability = "PRE_ORDER"
	AvailabilityBackorder    Availability = "BACKORDER"
	AvailabilityDiscontinued Availability = "DISCONTINUED"
)

// Availabilities lists every known availability value
var Availabilities = []Availability{
	AvailabilityInStock,
	AvailabilityOutOfStock,
	AvailabilityPreOrder,
	AvailabilityBackorder,
	AvailabilityDiscontinued,
}

// ShippingRange describes where a supplier ships to
type ShippingRange string

const (
	ShippingLocal         ShippingRange = "local"
	ShippingDomestic      ShippingRange = "domestic"
	ShippingInternational ShippingRange = "international"
	ShippingWorldwide     ShippingRange = "worldwide"
)

// FuzzResult is the fuzzy-match score attached to a listing during search
type FuzzResult struct {
	Score float64 `json:"score"`
	Idx   int     `json:"idx"`
}

// PartialProduct holds product fields that may or may not be known yet.
// Empty strings and nil pointers mean "absent".
type PartialProduct struct {
	Title            string        `json:"title,omitempty"`
	URL              string        `json:"url,omitempty"`
	Supplier         string        `json:"supplier,omitempty"`
	Description      string        `json:"description,omitempty"`
	Price            *float64      `json:"price,omitempty"`
	CurrencyCode     string        `json:"currencyCode,omitempty"`
	CurrencySymbol   string        `json:"currencySymbol,omitempty"`
	USDPrice         *float64      `json:"usdPrice,omitempty"`
	Quantity         *float64      `json:"quantity,omitempty"`
	UOM              string        `json:"uom,omitempty"`
	BaseQuantity     *float64      `json:"baseQuantity,omitempty"`
	Availability     Availability  `json:"availability,omitempty"`
	CAS              string        `json:"cas,omitempty"`
	Formula          string        `json:"formula,omitempty"`
	Grade            string        `json:"grade,omitempty"`
	SKU              string        `json:"sku,omitempty"`
	UUID             string        `json:"uuid,omitempty"`
	ID               string        `json:"id,omitempty"`
	Vendor           string        `json:"vendor,omitempty"`
	SupplierCountry  string        `json:"supplierCountry,omitempty"`
	SupplierShipping ShippingRange `json:"supplierShipping,omitempty"`
	PaymentMethods   []string      `json:"paymentMethods,omitempty"`
	MatchPercentage  *float64      `json:"matchPercentage,omitempty"`
}

// Variant is one packaging/quantity option of a product. Fields left empty
// are inherited from the parent product at build time.
type Variant = PartialProduct

// ProductDraft is the builder's accumulator and the persisted dump format
type ProductDraft struct {
	PartialProduct
	Variants []Variant   `json:"variants,omitempty"`
	Fuzz     *FuzzResult `json:"_fuzz,omitempty"`
}

// Product is a finished, validated and normalized supplier listing
type Product struct {
	Title            string        `json:"title"`
	URL              string        `json:"url"`
	Supplier         string        `json:"supplier"`
	Price            float64       `json:"price"`
	CurrencyCode     string        `json:"currencyCode"`
	CurrencySymbol   string        `json:"currencySymbol,omitempty"`
	USDPrice         float64       `json:"usdPrice"`
	Quantity         float64       `json:"quantity"`
	UOM              string        `json:"uom"`
	BaseQuantity     *float64      `json:"baseQuantity,omitempty"`
	Availability     Availability  `json:"availability,omitempty"`
	Description      string        `json:"description,omitempty"`
	CAS              string        `json:"cas,omitempty"`
	Formula          string        `json:"formula,omitempty"`
	Grade            string        `json:"grade,omitempty"`
	SKU              string        `json:"sku,omitempty"`
	UUID             string        `json:"uuid,omitempty"`
	ID               string        `json:"id,omitempty"`
	Vendor           string        `json:"vendor,omitempty"`
	SupplierCountry  string        `json:"supplierCountry,omitempty"`
	SupplierShipping ShippingRange `json:"supplierShipping,omitempty"`
	PaymentMethods   []string      `json:"paymentMethods,omitempty"`
	MatchPercentage  *float64      `json:"matchPercentage,omitempty"`
	Variants         []Variant     `json:"variants,omitempty"`
}

// MatchResult is the outcome of scoring a supplier title against a search query
type MatchResult struct {
	Title         string   `json:"title"`
	MatchScore    float64  `json:"matchScore"`
	MatchedTokens []string `json:"matchedTokens,omitempty"`
}
