package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ParsedPrice
	}{
		{"dollar sign", "$123.34", ParsedPrice{123.34, "USD", "$"}},
		{"us grouping", "$1,234.56", ParsedPrice{1234.56, "USD", "$"}},
		{"euro with european separators", "€1.234,56", ParsedPrice{1234.56, "EUR", "€"}},
		{"zloty with space grouping", "1 234,56 zł", ParsedPrice{1234.56, "PLN", "zł"}},
		{"pound", "£12.50", ParsedPrice{12.5, "GBP", "£"}},
		{"iso code prefix", "USD 1,234.56", ParsedPrice{1234.56, "USD", "$"}},
		{"iso code with decimal comma", "EUR 12,50", ParsedPrice{12.5, "EUR", "€"}},
		{"swiss apostrophe grouping", "CHF 1'234.50", ParsedPrice{1234.5, "CHF", "CHF"}},
		{"real before dollar", "R$ 45,90", ParsedPrice{45.9, "BRL", "R$"}},
		{"yen thousands", "¥1,500", ParsedPrice{1500, "JPY", "¥"}},
		{"krona suffix", "12 kr", ParsedPrice{12, "SEK", "kr"}},
		{"alphabetic sign inside a word is ignored", "kraft paper $5", ParsedPrice{5, "USD", "$"}},
		{"fullwidth dollar", "＄5", ParsedPrice{5, "USD", "$"}},
		{"iso code suffix", "12.50 EUR", ParsedPrice{12.5, "EUR", "€"}},
		{"currency word after a signed price", "$12.00 ALL sizes", ParsedPrice{12, "USD", "$"}},
		{"marketing word after a signed price", "$5.99 TOP SELLER", ParsedPrice{5.99, "USD", "$"}},
		{"currency word before a signed price", "CUP holder $3.50", ParsedPrice{3.5, "USD", "$"}},
		{"code refines a shared sign", "$12 CAD", ParsedPrice{12, "CAD", "C$"}},
		{"code refines kr", "kr 99 NOK", ParsedPrice{99, "NOK", "kr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			require.True(t, ok)
			assert.InDelta(t, tt.want.Price, got.Price, 1e-9)
			assert.Equal(t, tt.want.CurrencyCode, got.CurrencyCode)
			assert.Equal(t, tt.want.CurrencySymbol, got.CurrencySymbol)
		})
	}
}

func TestParsePrice_Unparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "123.45", "$", "call for price", "ALL sizes in stock"} {
		t.Run(input, func(t *testing.T) {
			_, ok := ParsePrice(input)
			assert.False(t, ok)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("123.45"))
	assert.True(t, IsNumeric(" 42 "))
	assert.True(t, IsNumeric("-1"))
	assert.True(t, IsNumeric(".5"))
	assert.False(t, IsNumeric("$123.45"))
	assert.False(t, IsNumeric("1,234.56"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("abc"))
}

func TestCoerce(t *testing.T) {
	got, ok := Coerce("19.99")
	assert.True(t, ok)
	assert.Equal(t, 19.99, got)

	got, ok = Coerce(" 1e3 ")
	assert.True(t, ok)
	assert.Equal(t, 1000.0, got)

	for _, input := range []string{"", "abc", "NaN", "Inf", "12,50"} {
		_, ok := Coerce(input)
		assert.False(t, ok, input)
	}
}

func TestIsCurrencyCode(t *testing.T) {
	assert.True(t, IsCurrencyCode("USD"))
	assert.True(t, IsCurrencyCode("EUR"))
	assert.True(t, IsCurrencyCode("PLN"))
	assert.False(t, IsCurrencyCode("ACS"))
	assert.False(t, IsCurrencyCode("US"))
	assert.False(t, IsCurrencyCode(""))
}

func TestSymbolFor(t *testing.T) {
	assert.Equal(t, "€", SymbolFor("EUR"))
	assert.Equal(t, "$", SymbolFor("usd"))
	assert.Equal(t, "MXN", SymbolFor("MXN"))
}
