package chem

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	subscriptZero = '₀'
	hydrateDot    = "·"
)

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'+': '⁺', '-': '⁻',
}

// Tags that separate words when markup is flattened
var blockTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "td": true, "th": true,
	"tr": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "dd": true, "dt": true,
}

var (
	formulaCandidate = buildFormulaPattern()
	elementToken     = regexp.MustCompile(`[A-Z][a-z]?`)
)

func buildFormulaPattern() *regexp.Regexp {
	count := `[0-9\x{2080}-\x{2089}]*`
	atom := `[A-Z][a-z]?`
	group := `\((?:` + atom + count + `)+\)`
	unit := `(?:` + atom + `|` + group + `)` + count
	return regexp.MustCompile(`(?:` + unit + `)+(?:[·•⋅]\d*(?:` + unit + `)+)*`)
}

// FindFormulaInHTML locates a chemical formula in text that may contain
// markup such as <sub> tags. Counts are returned as Unicode subscripts.
func FindFormulaInHTML(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	flat := flattenMarkup(text)
	for _, loc := range formulaCandidate.FindAllStringIndex(flat, -1) {
		if !isBounded(flat, loc[0], loc[1]) {
			continue
		}
		candidate := trimEnclosingParens(flat[loc[0]:loc[1]])
		if !isPlausibleFormula(candidate) {
			continue
		}
		return normalizeFormula(candidate), true
	}

	return "", false
}

// flattenMarkup strips tags and decodes entities. Text inside <sub> becomes
// subscript digits, text inside <sup> becomes superscript.
func flattenMarkup(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	sub, sup := 0, 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			s := string(z.Text())
			switch {
			case sub > 0:
				s = toSubscript(s)
			case sup > 0:
				s = toSuperscript(s)
			}
			b.WriteString(s)
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch tag {
			case "sub":
				if tt == html.StartTagToken {
					sub++
				} else if tt == html.EndTagToken && sub > 0 {
					sub--
				}
			case "sup":
				if tt == html.StartTagToken {
					sup++
				} else if tt == html.EndTagToken && sup > 0 {
					sup--
				}
			default:
				if blockTags[tag] {
					b.WriteByte(' ')
				}
			}
		}
	}
}

func toSubscript(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return subscriptZero + (r - '0')
		}
		return r
	}, s)
}

func toSuperscript(s string) string {
	return strings.Map(func(r rune) rune {
		if sup, ok := superscripts[r]; ok {
			return sup
		}
		return r
	}, s)
}

func isSubscriptDigit(r rune) bool {
	return r >= subscriptZero && r <= subscriptZero+9
}

func isFormulaRune(r rune) bool {
	return unicode.IsLetter(r) || (r >= '0' && r <= '9') || isSubscriptDigit(r)
}

// isBounded rejects candidates glued to surrounding words or numbers
func isBounded(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isFormulaRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isFormulaRune(r) {
			return false
		}
	}
	return true
}

func trimEnclosingParens(s string) string {
	if strings.HasPrefix(s, "(") && strings.Index(s, ")") == len(s)-1 {
		return s[1 : len(s)-1]
	}
	return s
}

// isPlausibleFormula requires every token to be an element and the whole to
// look like a formula rather than an acronym: either it carries a count or it
// has a two-letter symbol among several tokens.
func isPlausibleFormula(s string) bool {
	tokens := elementToken.FindAllString(s, -1)
	if len(tokens) == 0 {
		return false
	}

	twoLetter := false
	for _, tok := range tokens {
		if !IsElement(tok) {
			return false
		}
		if len(tok) == 2 {
			twoLetter = true
		}
	}

	hasCount := strings.IndexFunc(s, func(r rune) bool {
		return (r >= '0' && r <= '9') || isSubscriptDigit(r)
	}) >= 0

	return hasCount || (len(tokens) > 1 && twoLetter)
}

// normalizeFormula turns ASCII counts into subscripts. A leading number after
// a hydrate dot is a coefficient and stays as is.
func normalizeFormula(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '·' || r == '•' || r == '⋅'
	})

	for i, part := range parts {
		coefficient := ""
		if i > 0 {
			j := strings.IndexFunc(part, func(r rune) bool { return r < '0' || r > '9' })
			if j > 0 {
				coefficient, part = part[:j], part[j:]
			}
		}
		parts[i] = coefficient + toSubscript(part)
	}

	return strings.Join(parts, hydrateDot)
}
