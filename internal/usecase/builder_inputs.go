package usecase

import (
	"github.com/chemsearch/backend/internal/pricing"
	"github.com/chemsearch/backend/internal/quantity"
)

// PriceInput is one of the argument shapes SetPricing accepts. Build values
// with PriceFromParsed, PriceFromText or PriceWithCurrency.
type PriceInput interface {
	applyPrice(b *ProductBuilder)
}

type parsedPrice struct {
	parsed pricing.ParsedPrice
}

type textPrice struct {
	text string
}

type amountPrice struct {
	amount any
	code   string
	symbol string
}

// PriceFromParsed uses an already parsed amount, code and symbol
func PriceFromParsed(p pricing.ParsedPrice) PriceInput {
	return parsedPrice{parsed: p}
}

// PriceFromText parses a price string such as "$123.34" or "1.234,56 €"
func PriceFromText(s string) PriceInput {
	return textPrice{text: s}
}

// PriceWithCurrency is a number or numeric string plus explicit currency.
// Empty code or symbol leave the current values in place.
func PriceWithCurrency(amount any, code, symbol string) PriceInput {
	return amountPrice{amount: amount, code: code, symbol: symbol}
}

func (in parsedPrice) applyPrice(b *ProductBuilder) {
	b.setPriceValue(in.parsed.Price)
	b.product.CurrencyCode = in.parsed.CurrencyCode
	b.product.CurrencySymbol = in.parsed.CurrencySymbol
}

func (in textPrice) applyPrice(b *ProductBuilder) {
	b.applyPriceText(in.text)
}

// The given code and symbol are stored first; a currency parsed out of a
// string amount replaces them.
func (in amountPrice) applyPrice(b *ProductBuilder) {
	if in.code != "" {
		b.product.CurrencyCode = in.code
	}
	if in.symbol != "" {
		b.product.CurrencySymbol = in.symbol
	}
	if s, ok := in.amount.(string); ok {
		b.applyPriceText(s)
	} else {
		b.SetPrice(in.amount)
	}
}

// QuantityInput is one of the argument shapes SetQuantity accepts. Build
// values with QuantityFromParsed, QuantityFromText, QuantityWithUnit or
// QuantityCount.
type QuantityInput interface {
	applyQuantity(b *ProductBuilder)
}

type parsedQuantity struct {
	parsed quantity.Parsed
}

type textQuantity struct {
	text string
}

type amountQuantity struct {
	amount float64
	uom    string
}

// QuantityFromParsed uses an already parsed amount and unit
func QuantityFromParsed(p quantity.Parsed) QuantityInput {
	return parsedQuantity{parsed: p}
}

// QuantityFromText parses a string such as "500g" or "2.5 L"
func QuantityFromText(s string) QuantityInput {
	return textQuantity{text: s}
}

// QuantityWithUnit is an explicit amount and unit. An empty unit means pieces.
func QuantityWithUnit(amount float64, uom string) QuantityInput {
	return amountQuantity{amount: amount, uom: uom}
}

// QuantityCount is a bare count of pieces
func QuantityCount(amount float64) QuantityInput {
	return amountQuantity{amount: amount}
}

func (in parsedQuantity) applyQuantity(b *ProductBuilder) {
	b.setQuantityValue(in.parsed.Quantity, in.parsed.UOM)
}

func (in textQuantity) applyQuantity(b *ProductBuilder) {
	b.applyQuantityText(in.text)
}

func (in amountQuantity) applyQuantity(b *ProductBuilder) {
	uom := in.uom
	if uom == "" {
		uom = defaultCountUnit
	}
	b.setQuantityValue(in.amount, uom)
}
