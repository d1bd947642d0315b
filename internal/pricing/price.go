package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/unicode/norm"
)

// ParsedPrice is an amount together with the currency it was quoted in
type ParsedPrice struct {
	Price          float64 `json:"price"`
	CurrencyCode   string  `json:"currencyCode"`
	CurrencySymbol string  `json:"currencySymbol"`
}

type currencySign struct {
	symbol string
	code   string
}

// Ordered so that longer symbols are tried before their suffixes ("R$" before "$")
var currencySigns = []currencySign{
	{"US$", "USD"},
	{"R$", "BRL"},
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"CHF", "CHF"},
	{"zł", "PLN"},
	{"Kč", "CZK"},
	{"kr", "SEK"},
	{"$", "USD"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₹", "INR"},
	{"₩", "KRW"},
	{"₽", "RUB"},
	{"₺", "TRY"},
}

var symbolByCode = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"RUB": "₽",
	"TRY": "₺",
	"PLN": "zł",
	"CZK": "Kč",
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"BRL": "R$",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF",
}

var (
	isoBeforeAmount = regexp.MustCompile(`\b([A-Z]{3})\s*\d`)
	isoAfterAmount  = regexp.MustCompile(`\d\s*([A-Z]{3})\b`)
	amountPattern   = regexp.MustCompile(`\d{1,3}(?:[ '\x{00A0}\x{202F}]\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)*`)
	thousandsOnly   = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)
	cleanNumber     = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)
)

// ParsePrice extracts an amount and currency from a price string such as
// "$1,234.56", "1.234,56 €" or "EUR 12,50". A string without a recognizable
// currency or amount is unparseable.
func ParsePrice(s string) (ParsedPrice, bool) {
	text := strings.TrimSpace(norm.NFKC.String(s))
	if text == "" {
		return ParsedPrice{}, false
	}

	code, symbol, ok := detectCurrency(text)
	if !ok {
		return ParsedPrice{}, false
	}

	raw := amountPattern.FindString(text)
	if raw == "" {
		return ParsedPrice{}, false
	}

	amount, err := decimal.NewFromString(normalizeAmount(raw))
	if err != nil {
		return ParsedPrice{}, false
	}

	return ParsedPrice{
		Price:          amount.InexactFloat64(),
		CurrencyCode:   code,
		CurrencySymbol: symbol,
	}, true
}

// IsNumeric reports whether s is already a clean decimal number with no
// currency or grouping characters.
func IsNumeric(s string) bool {
	return cleanNumber.MatchString(strings.TrimSpace(s))
}

// Coerce converts a plain numeric string to a float. NaN, infinities and
// blank strings are rejected.
func Coerce(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsCurrencyCode reports whether code is a known ISO 4217 code
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

// SymbolFor returns the display symbol for an ISO code, or the code itself
func SymbolFor(code string) string {
	if sym, ok := symbolByCode[strings.ToUpper(code)]; ok {
		return sym
	}
	return strings.ToUpper(code)
}

// detectCurrency prefers a currency sign. An ISO code only counts when it
// sits next to a number, and it refines a sign it shares ("$" with "CAD").
func detectCurrency(text string) (code, symbol string, ok bool) {
	isoCode, hasCode := adjacentISOCode(text)

	for _, sign := range currencySigns {
		if !containsSign(text, sign.symbol) {
			continue
		}
		if hasCode && isoCode != sign.code && strings.HasSuffix(SymbolFor(isoCode), sign.symbol) {
			return isoCode, SymbolFor(isoCode), true
		}
		return sign.code, sign.symbol, true
	}

	if hasCode {
		return isoCode, SymbolFor(isoCode), true
	}
	return "", "", false
}

func adjacentISOCode(text string) (string, bool) {
	for _, pattern := range []*regexp.Regexp{isoBeforeAmount, isoAfterAmount} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if IsCurrencyCode(m[1]) {
				return m[1], true
			}
		}
	}
	return "", false
}

// containsSign finds a currency sign. Alphabetic signs such as "kr" must not
// be part of a longer word.
func containsSign(text, sign string) bool {
	first, _ := utf8.DecodeRuneInString(sign)
	if !unicode.IsLetter(first) {
		return strings.Contains(text, sign)
	}

	offset := 0
	for {
		i := strings.Index(text[offset:], sign)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(sign)

		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		next, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsLetter(prev) && !unicode.IsLetter(next) {
			return true
		}
		offset = end
	}
}

// normalizeAmount rewrites a locale-formatted number into plain decimal form.
// When both separators appear the last one is the decimal point; a single
// separator followed by exactly three digit groups is a thousands separator.
func normalizeAmount(raw string) string {
	compact := strings.NewReplacer(" ", "", "'", "", "\u00a0", "", "\u202f", "").Replace(raw)

	lastDot := strings.LastIndex(compact, ".")
	lastComma := strings.LastIndex(compact, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			compact = strings.ReplaceAll(compact, ".", "")
			return strings.Replace(compact, ",", ".", 1)
		}
		return strings.ReplaceAll(compact, ",", "")
	case thousandsOnly.MatchString(compact):
		return strings.NewReplacer(".", "", ",", "").Replace(compact)
	case lastComma >= 0:
		return strings.Replace(compact, ",", ".", 1)
	default:
		return compact
	}
}
