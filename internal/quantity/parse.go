package quantity

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Parsed is an amount with its canonical unit
type Parsed struct {
	Quantity float64 `json:"quantity"`
	UOM      string  `json:"uom"`
}

var (
	quantityPattern = buildQuantityPattern()
	commaThousands  = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

func buildQuantityPattern() *regexp.Regexp {
	alts := make([]string, 0, len(aliases))
	for _, alias := range aliasesByLength() {
		alts = append(alts, strings.ReplaceAll(regexp.QuoteMeta(alias), " ", `\s*`))
	}
	return regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)*)\s*(` + strings.Join(alts, "|") + `)(?:[^\p{L}\p{N}]|$)`)
}

// Parse finds the first "<number><unit>" pair in s, e.g. "500g", "2.5 L" or
// "Pack of 10 pcs". The unit is returned in canonical form.
func Parse(s string) (Parsed, bool) {
	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return Parsed{}, false
	}

	amount, ok := parseNumber(m[1])
	if !ok {
		return Parsed{}, false
	}

	uom, ok := Normalize(m[2])
	if !ok {
		return Parsed{}, false
	}

	return Parsed{Quantity: amount, UOM: uom}, true
}

// parseNumber accepts "1,000" as a thousands grouping and "2,5" as a decimal comma
func parseNumber(raw string) (float64, bool) {
	switch {
	case commaThousands.MatchString(raw):
		raw = strings.ReplaceAll(raw, ",", "")
	case strings.Contains(raw, ",") && strings.Contains(raw, "."):
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	default:
		raw = strings.Replace(raw, ",", ".", 1)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
