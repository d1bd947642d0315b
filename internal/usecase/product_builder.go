package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/chemsearch/backend/internal/chem"
	"github.com/chemsearch/backend/internal/domain"
	"github.com/chemsearch/backend/internal/pricing"
	"github.com/chemsearch/backend/internal/quantity"
)

const defaultCountUnit = "pieces"

// availabilityWords maps lowercased, letters-only availability text to the enum
var availabilityWords = map[string]domain.Availability{
	"instock":      domain.AvailabilityInStock,
	"available":    domain.AvailabilityInStock,
	"unavailable":  domain.AvailabilityOutOfStock,
	"outofstock":   domain.AvailabilityOutOfStock,
	"preorder":     domain.AvailabilityPreOrder,
	"backorder":    domain.AvailabilityBackorder,
	"discontinued": domain.AvailabilityDiscontinued,
}

// ProductBuilder accumulates the fields of one supplier listing and turns
// them into a validated domain.Product. Setters never fail: bad input is
// reported to the diagnostics sink and ignored. A builder is used by one
// goroutine and consumed by its first Build.
type ProductBuilder struct {
	product   domain.ProductDraft
	rawData   map[string]any
	baseURL   string
	converter domain.CurrencyConverter
	diag      domain.Diagnostics
	consumed  bool
}

// BuilderOption configures a ProductBuilder
type BuilderOption func(*ProductBuilder)

// WithDiagnostics routes builder warnings and errors to d
func WithDiagnostics(d domain.Diagnostics) BuilderOption {
	return func(b *ProductBuilder) {
		if d != nil {
			b.diag = d
		}
	}
}

type nopDiagnostics struct{}

func (nopDiagnostics) Warn(string, ...any)  {}
func (nopDiagnostics) Error(string, ...any) {}

// NewProductBuilder creates a builder that resolves relative URLs against
// baseURL and converts prices to USD with converter.
func NewProductBuilder(baseURL string, converter domain.CurrencyConverter, opts ...BuilderOption) *ProductBuilder {
	b := &ProductBuilder{
		rawData:   make(map[string]any),
		baseURL:   baseURL,
		converter: converter,
		diag:      nopDiagnostics{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateFromCache rebuilds one builder per previously dumped draft
func CreateFromCache(baseURL string, converter domain.CurrencyConverter, drafts []domain.ProductDraft, opts ...BuilderOption) []*ProductBuilder {
	builders := make([]*ProductBuilder, 0, len(drafts))
	for _, d := range drafts {
		builders = append(builders, NewProductBuilder(baseURL, converter, opts...).SetData(d))
	}
	return builders
}

// SetBasicInfo stores the identity fields. url may be relative; it is
// resolved against the base URL at build time.
func (b *ProductBuilder) SetBasicInfo(title, url, supplier string) *ProductBuilder {
	b.product.Title = title
	b.product.URL = url
	b.product.Supplier = supplier
	return b
}

// SetFormula extracts a chemical formula from text or markup
func (b *ProductBuilder) SetFormula(raw string) *ProductBuilder {
	if strings.TrimSpace(raw) == "" {
		return b
	}
	if formula, ok := chem.FindFormulaInHTML(raw); ok {
		b.product.Formula = formula
	}
	return b
}

func (b *ProductBuilder) SetGrade(grade string) *ProductBuilder {
	if g := strings.TrimSpace(grade); g != "" {
		b.product.Grade = g
	}
	return b
}

// SetPrice accepts any Go number or a numeric string
func (b *ProductBuilder) SetPrice(price any) *ProductBuilder {
	f, ok := toFloat(price)
	if !ok {
		b.diag.Warn("invalid price", "value", price)
		return b
	}
	b.product.Price = &f
	return b
}

func (b *ProductBuilder) SetCurrencySymbol(sign string) *ProductBuilder {
	b.product.CurrencySymbol = sign
	return b
}

func (b *ProductBuilder) SetCurrencyCode(code string) *ProductBuilder {
	b.product.CurrencyCode = code
	return b
}

// SetPricing sets price and, depending on the input shape, currency
func (b *ProductBuilder) SetPricing(in PriceInput) *ProductBuilder {
	if in == nil {
		b.diag.Warn("nil pricing input")
		return b
	}
	in.applyPrice(b)
	return b
}

// SetQuantity sets quantity and unit from one of the QuantityInput shapes
func (b *ProductBuilder) SetQuantity(in QuantityInput) *ProductBuilder {
	if in == nil {
		b.diag.Warn("nil quantity input")
		return b
	}
	in.applyQuantity(b)
	return b
}

func (b *ProductBuilder) SetUOM(uom string) *ProductBuilder {
	u := strings.TrimSpace(uom)
	if u == "" {
		b.diag.Warn("empty unit of measure")
		return b
	}
	b.product.UOM = u
	return b
}

func (b *ProductBuilder) SetSupplierCountry(country string) *ProductBuilder {
	b.product.SupplierCountry = country
	return b
}

func (b *ProductBuilder) SetSupplierShipping(shipping domain.ShippingRange) *ProductBuilder {
	b.product.SupplierShipping = shipping
	return b
}

// SetSupplierPaymentMethods accepts a []string or a single string
func (b *ProductBuilder) SetSupplierPaymentMethods(methods any) *ProductBuilder {
	switch m := methods.(type) {
	case []string:
		b.product.PaymentMethods = append([]string(nil), m...)
	case string:
		if strings.TrimSpace(m) != "" {
			b.product.PaymentMethods = []string{m}
		}
	default:
		b.diag.Warn("invalid payment methods", "value", methods)
	}
	return b
}

func (b *ProductBuilder) SetDescription(description string) *ProductBuilder {
	b.product.Description = description
	return b
}

// SetCAS stores a CAS registry number, either given directly or found
// somewhere inside the text.
func (b *ProductBuilder) SetCAS(cas string) *ProductBuilder {
	if chem.IsCAS(cas) {
		b.product.CAS = cas
		return b
	}
	if found, ok := chem.FindCAS(cas); ok {
		b.product.CAS = found
	}
	return b
}

// SetID accepts a string or a number; zero and blank values are ignored
func (b *ProductBuilder) SetID(id any) *ProductBuilder {
	switch v := id.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			b.product.ID = s
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f != 0 {
			b.product.ID = v.String()
		}
	default:
		if f, ok := toFloat(v); ok && f != 0 {
			b.product.ID = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return b
}

func (b *ProductBuilder) SetUUID(uuid string) *ProductBuilder {
	if s := strings.TrimSpace(uuid); s != "" {
		b.product.UUID = s
	}
	return b
}

func (b *ProductBuilder) SetSku(sku string) *ProductBuilder {
	if s := strings.TrimSpace(sku); s != "" {
		b.product.SKU = s
	}
	return b
}

func (b *ProductBuilder) SetVendor(vendor string) *ProductBuilder {
	if s := strings.TrimSpace(vendor); s != "" {
		b.product.Vendor = s
	}
	return b
}

// SetAvailability accepts an Availability, a bool or free text such as
// "In Stock!" and leaves availability unset when the value is not understood.
func (b *ProductBuilder) SetAvailability(value any) *ProductBuilder {
	a, ok := DetermineAvailability(value)
	if !ok {
		b.diag.Warn("unrecognized availability", "value", value)
		return b
	}
	b.product.Availability = a
	return b
}

// DetermineAvailability maps an enum value, bool or free text to an Availability
func DetermineAvailability(value any) (domain.Availability, bool) {
	switch v := value.(type) {
	case domain.Availability:
		if IsAvailability(v) {
			return v, true
		}
		return determineAvailabilityText(string(v))
	case bool:
		if v {
			return domain.AvailabilityInStock, true
		}
		return domain.AvailabilityOutOfStock, true
	case string:
		if IsAvailability(v) {
			return domain.Availability(v), true
		}
		return determineAvailabilityText(v)
	default:
		return "", false
	}
}

func determineAvailabilityText(s string) (domain.Availability, bool) {
	letters := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(s))

	a, ok := availabilityWords[letters]
	return a, ok
}

// AddRawData merges data into the provenance bag; later keys win
func (b *ProductBuilder) AddRawData(data map[string]any) *ProductBuilder {
	for k, v := range data {
		b.rawData[k] = v
	}
	return b
}

func (b *ProductBuilder) AddVariant(variant domain.Variant) *ProductBuilder {
	b.product.Variants = append(b.product.Variants, cloneVariant(variant))
	return b
}

func (b *ProductBuilder) AddVariants(variants []domain.Variant) *ProductBuilder {
	for _, v := range variants {
		b.AddVariant(v)
	}
	return b
}

// SetVariants replaces the whole variant list
func (b *ProductBuilder) SetVariants(variants []domain.Variant) *ProductBuilder {
	b.product.Variants = cloneVariants(variants)
	return b
}

// SetMatchPercentage stores a search match score; NaN and infinities are ignored
func (b *ProductBuilder) SetMatchPercentage(score float64) *ProductBuilder {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		b.diag.Warn("invalid match percentage", "value", score)
		return b
	}
	b.product.MatchPercentage = &score
	return b
}

// SetFuzz attaches the fuzzy-match result from the search step
func (b *ProductBuilder) SetFuzz(fuzz domain.FuzzResult) *ProductBuilder {
	b.product.Fuzz = &fuzz
	return b
}

// SetData merges a previously dumped draft into the builder without
// validation. Only fields present in d are applied.
func (b *ProductBuilder) SetData(d domain.ProductDraft) *ProductBuilder {
	b.product.PartialProduct = overlay(b.product.PartialProduct, clonePartial(d.PartialProduct))
	if d.Variants != nil {
		b.product.Variants = cloneVariants(d.Variants)
	}
	if d.Fuzz != nil {
		fuzz := *d.Fuzz
		b.product.Fuzz = &fuzz
	}
	return b
}

// Get returns the value of a field by its JSON name, or false when unset
func (b *ProductBuilder) Get(key string) (any, bool) {
	p := &b.product
	switch key {
	case "title":
		return nonEmpty(p.Title)
	case "url":
		return nonEmpty(p.URL)
	case "supplier":
		return nonEmpty(p.Supplier)
	case "description":
		return nonEmpty(p.Description)
	case "price":
		return deref(p.Price)
	case "currencyCode":
		return nonEmpty(p.CurrencyCode)
	case "currencySymbol":
		return nonEmpty(p.CurrencySymbol)
	case "usdPrice":
		return deref(p.USDPrice)
	case "quantity":
		return deref(p.Quantity)
	case "uom":
		return nonEmpty(p.UOM)
	case "baseQuantity":
		return deref(p.BaseQuantity)
	case "availability":
		return p.Availability, p.Availability != ""
	case "cas":
		return nonEmpty(p.CAS)
	case "formula":
		return nonEmpty(p.Formula)
	case "grade":
		return nonEmpty(p.Grade)
	case "sku":
		return nonEmpty(p.SKU)
	case "uuid":
		return nonEmpty(p.UUID)
	case "id":
		return nonEmpty(p.ID)
	case "vendor":
		return nonEmpty(p.Vendor)
	case "supplierCountry":
		return nonEmpty(p.SupplierCountry)
	case "supplierShipping":
		return p.SupplierShipping, p.SupplierShipping != ""
	case "paymentMethods":
		return append([]string(nil), p.PaymentMethods...), len(p.PaymentMethods) > 0
	case "matchPercentage":
		return deref(p.MatchPercentage)
	case "variants":
		return cloneVariants(p.Variants), len(p.Variants) > 0
	case "_fuzz":
		if p.Fuzz == nil {
			return nil, false
		}
		return *p.Fuzz, true
	default:
		return nil, false
	}
}

// GetVariant returns the variant at index i
func (b *ProductBuilder) GetVariant(i int) (domain.Variant, bool) {
	if i < 0 || i >= len(b.product.Variants) {
		return domain.Variant{}, false
	}
	return cloneVariant(b.product.Variants[i]), true
}

// RawData returns a copy of the provenance bag
func (b *ProductBuilder) RawData() map[string]any {
	out := make(map[string]any, len(b.rawData))
	for k, v := range b.rawData {
		out[k] = v
	}
	return out
}

// Dump returns the current draft without validating it
func (b *ProductBuilder) Dump() domain.ProductDraft {
	return cloneDraft(b.product)
}

// Build validates the draft, converts the price to USD, derives the base
// quantity, reconciles variants and resolves URLs.
//
// A listing that should simply be discarded yields an error for which
// domain.IsDiscard is true. A failed exchange rate lookup yields an error
// wrapping domain.ErrRateUnavailable.
func (b *ProductBuilder) Build(ctx context.Context) (*domain.Product, error) {
	if b.consumed {
		return nil, domain.ErrBuilderConsumed
	}
	b.consumed = true

	p := cloneDraft(b.product)

	if !IsMinimalProduct(&p) {
		return nil, domain.ErrIncompleteProduct
	}

	if p.Price != nil {
		usd := *p.Price
		p.USDPrice = &usd
	}

	if p.Quantity != nil && p.UOM != "" {
		if base, ok := quantity.ToBase(*p.Quantity, p.UOM); ok {
			p.BaseQuantity = &base
		}
	}

	if p.Price != nil && p.CurrencyCode != "" && !isUSD(p.CurrencyCode) {
		usd, err := b.toUSD(ctx, *p.Price, p.CurrencyCode)
		if err != nil {
			return nil, fmt.Errorf("convert price of %q: %w", p.Title, err)
		}
		p.USDPrice = &usd
	}

	if len(p.Variants) > 0 {
		variants, err := b.reconcileVariants(ctx, &p)
		if err != nil {
			return nil, err
		}
		p.Variants = variants
	}

	if p.Fuzz != nil {
		score := p.Fuzz.Score
		p.MatchPercentage = &score
	}

	if !IsProduct(&p) {
		b.diag.Error("invalid product", "product", p)
		return nil, domain.ErrInvalidProduct
	}

	p.URL = b.href(p.URL)

	return toProduct(&p), nil
}

// reconcileVariants drops variants that cannot be priced on their own and
// fills the rest from the parent. Variants are processed in order and only
// read the parent, never each other.
func (b *ProductBuilder) reconcileVariants(ctx context.Context, parent *domain.ProductDraft) ([]domain.Variant, error) {
	kept := make([]domain.Variant, 0, len(parent.Variants))

	for i, v := range parent.Variants {
		if !IsValidVariant(&v) {
			continue
		}
		if v.Quantity == nil || *v.Quantity == 0 {
			b.diag.Warn("skipping variant, no quantity found", "index", i, "variant", v)
			continue
		}
		if v.Price == nil || *v.Price == 0 {
			b.diag.Warn("skipping variant, no price found", "index", i, "variant", v)
			continue
		}

		if v.USDPrice == nil || *v.USDPrice == 0 {
			usd, err := b.variantUSD(ctx, *v.Price, parent.CurrencyCode)
			if err != nil {
				return nil, fmt.Errorf("convert price of variant %d of %q: %w", i, parent.Title, err)
			}
			v.USDPrice = usd
		}

		if v.UOM == "" {
			v.UOM = parent.UOM
		}

		if strings.TrimSpace(v.Title) == "" || v.Title == parent.Title {
			v.Title = fmt.Sprintf("%s - %s%s", parent.Title, formatAmount(*v.Quantity), v.UOM)
		}

		if v.BaseQuantity == nil {
			if base, ok := quantity.ToBase(*v.Quantity, v.UOM); ok {
				v.BaseQuantity = &base
			}
		}

		merged := inheritFromParent(parent.PartialProduct, v)
		if merged.URL != "" {
			merged.URL = b.href(merged.URL)
		}

		kept = append(kept, merged)
	}

	return kept, nil
}

// variantUSD converts a variant price with the parent currency. Without a
// parent currency there is nothing to convert from; the parent then fails
// validation anyway.
func (b *ProductBuilder) variantUSD(ctx context.Context, price float64, code string) (*float64, error) {
	switch {
	case code == "":
		return nil, nil
	case isUSD(code):
		return &price, nil
	}
	usd, err := b.toUSD(ctx, price, code)
	if err != nil {
		return nil, err
	}
	return &usd, nil
}

func (b *ProductBuilder) toUSD(ctx context.Context, amount float64, code string) (float64, error) {
	if b.converter == nil {
		return 0, fmt.Errorf("%w: no currency converter configured", domain.ErrRateUnavailable)
	}
	return b.converter.ToUSD(ctx, amount, code)
}

// href resolves u against the base URL; unparseable input is returned as is
func (b *ProductBuilder) href(u string) string {
	ref, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return u
	}
	base, err := url.Parse(b.baseURL)
	if err != nil {
		return u
	}
	return base.ResolveReference(ref).String()
}

func (b *ProductBuilder) applyPriceText(s string) {
	text := strings.TrimSpace(s)

	if pricing.IsNumeric(text) {
		if f, ok := pricing.Coerce(text); ok {
			b.product.Price = &f
		}
		return
	}

	if parsed, ok := pricing.ParsePrice(text); ok {
		b.setPriceValue(parsed.Price)
		b.product.CurrencyCode = parsed.CurrencyCode
		b.product.CurrencySymbol = parsed.CurrencySymbol
		return
	}

	if f, ok := pricing.Coerce(text); ok {
		b.product.Price = &f
		return
	}

	b.diag.Warn("unable to parse price", "value", s)
}

func (b *ProductBuilder) setPriceValue(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.diag.Warn("invalid price", "value", f)
		return
	}
	b.product.Price = &f
}

func (b *ProductBuilder) applyQuantityText(s string) {
	if parsed, ok := quantity.Parse(s); ok {
		b.setQuantityValue(parsed.Quantity, parsed.UOM)
		return
	}

	text := strings.TrimSpace(s)
	prefix, suffix := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		prefix, suffix = text[:i], strings.TrimSpace(text[i:])
	}

	amount, ok := pricing.Coerce(prefix)
	if !ok {
		b.diag.Warn("unable to parse quantity", "value", s)
		return
	}

	// A bare number carries no unit, so any earlier one is dropped
	b.product.Quantity = &amount
	b.product.UOM = suffix
}

func (b *ProductBuilder) setQuantityValue(amount float64, uom string) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		b.diag.Warn("invalid quantity", "value", amount)
		return
	}
	b.product.Quantity = &amount
	b.product.UOM = uom
}

func isUSD(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), pricing.USD)
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toFloat converts Go numbers, json.Number and numeric strings
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		return pricing.Coerce(n)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func nonEmpty(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}

func deref(f *float64) (any, bool) {
	if f == nil {
		return nil, false
	}
	return *f, true
}
