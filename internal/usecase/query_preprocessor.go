package usecase

import (
	"regexp"
	"strings"

	"github.com/chemsearch/backend/internal/observability"
)

// QueryPreprocessor strips package size, grade and packaging noise from
// search queries and supplier titles so that only the substance name is left
// for matching.
type QueryPreprocessor struct {
	logger             *observability.Logger
	enableDebugLogging bool
}

// Compiled regex patterns for query preprocessing
var (
	// Matches sizes like "500g", "2.5 L", "100 mL", "1 gal", "25 µg"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:fl\.?\s*oz|kg|mg|µg|μg|ug|mcg|g|grams?|ml|µl|μl|ul|l|liters?|litres?|gal|gallons?|oz|lbs?|qt|pt)(?:\b|$)`)

	// Matches pack patterns like "6 x 100 mL", "pack of 6", "case of 4", "6-pack", "10 pcs"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+\s*[x×]\s*|\b(?:pack|case|box|set)\s+of\s+\d+\b|\b\d+[-\s]*(?:pack|pk|pcs|pieces?|count|ct|vials?|ampoules?|bottles?)\b`)

	// Matches purity figures like "99.5%", "≥98 %", ">99%"
	purityPattern = regexp.MustCompile(`[≥>≤<~]?\s*\d+(?:[.,]\d+)?\s*%`)

	// Matches leftover numbers at the ends (e.g. ", 500" or "12 - ")
	standaloneNumberPattern = regexp.MustCompile(`,\s*\d+(?:\.\d+)?\s*$|\s-\s*\d+(?:\.\d+)?\s*$|^\d+(?:\.\d+)?\s*[,\-]\s`)

	multiSpacePattern = regexp.MustCompile(`\s+`)

	loneSeparatorPattern     = regexp.MustCompile(`\s+[,\-;:]+\s+`)
	trailingSeparatorPattern = regexp.MustCompile(`[,\-;:]+\s*$`)
	leadingSeparatorPattern  = regexp.MustCompile(`^\s*[,\-;:]+`)
)

// queryNoiseWords are grade, packaging and marketing terms that do not
// identify a substance
var queryNoiseWords = map[string]bool{
	// Grades
	"acs":        true,
	"usp":        true,
	"nf":         true,
	"fcc":        true,
	"bp":         true,
	"ep":         true,
	"jp":         true,
	"reagent":    true,
	"grade":      true,
	"lab":        true,
	"laboratory": true,
	"technical":  true,
	"tech":       true,
	"analytical": true,
	"hplc":       true,
	"certified":  true,
	"purified":   true,
	"pure":       true,
	"purity":     true,
	"ultrapure":  true,

	// Packaging
	"bottle":    true,
	"jar":       true,
	"drum":      true,
	"pail":      true,
	"carboy":    true,
	"jug":       true,
	"vial":      true,
	"ampoule":   true,
	"ampule":    true,
	"bag":       true,
	"container": true,
	"case":      true,
	"pack":      true,
	"package":   true,

	// Marketing
	"premium": true,
	"quality": true,
	"high":    true,
	"new":     true,
	"best":    true,
	"sale":    true,
	"bulk":    true,
	"product": true,
}

// descriptiveTerms qualify a substance without naming it
var descriptiveTerms = map[string]bool{
	"anhydrous": true, "hydrate": true, "monohydrate": true, "dihydrate": true,
	"trihydrate": true, "pentahydrate": true, "hexahydrate": true, "heptahydrate": true,
	"solution": true, "powder": true, "crystals": true, "crystalline": true,
	"granular": true, "pellets": true, "flakes": true, "beads": true, "liquid": true,
	"concentrated": true, "dilute": true, "glacial": true, "fuming": true,
	"acid": true, "base": true, "salt": true, "oxide": true,
}

// chemicalSuffixes mark tokens that are most likely substance names
var chemicalSuffixes = []string{
	"ide", "ate", "ite", "ium", "ine", "ane", "ene", "yne", "ol", "one", "al", "ic", "ous", "ose", "yl",
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *observability.Logger, enableDebugLogging bool) *QueryPreprocessor {
	if logger == nil {
		logger = observability.Nop()
	}
	return &QueryPreprocessor{
		logger:             logger.WithComponent("preprocess"),
		enableDebugLogging: enableDebugLogging,
	}
}

// PreprocessQuery lowercases name and removes sizes, pack counts, purity
// figures and grade/packaging words. CAS numbers and formulas are kept.
func (p *QueryPreprocessor) PreprocessQuery(name string) string {
	if name == "" {
		return ""
	}

	original := name

	cleaned := sizeQuantityPattern.ReplaceAllString(name, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = purityPattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = cleanOrphanedPunctuation(cleaned)

	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > 50 {
			cleaned = cleaned[:lastSpace]
		}
	}

	if p.enableDebugLogging {
		p.logger.Debug().Str("input", original).Str("output", cleaned).Msg("preprocessed query")
	}

	return cleaned
}

// removeNoiseWords drops grade, packaging and marketing words
func removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(words))

	for _, word := range words {
		cleanWord := strings.Trim(word, ",.!?;:-'\"()")
		if !queryNoiseWords[cleanWord] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}

// cleanOrphanedPunctuation removes separators left alone after stripping
func cleanOrphanedPunctuation(s string) string {
	result := loneSeparatorPattern.ReplaceAllString(s, " ")
	result = trailingSeparatorPattern.ReplaceAllString(result, "")
	return leadingSeparatorPattern.ReplaceAllString(result, "")
}

// ExtractKeywords returns the tokens of text ordered by importance:
// substance names first, then descriptive terms, then the rest
func (p *QueryPreprocessor) ExtractKeywords(text string) []string {
	tokens := tokenize(p.PreprocessQuery(text))

	var high, medium, low []string
	for _, token := range tokens {
		switch tokenWeight(token) {
		case weightChemical:
			high = append(high, token)
		case weightDescriptive:
			medium = append(medium, token)
		default:
			low = append(low, token)
		}
	}

	result := make([]string, 0, len(tokens))
	result = append(result, high...)
	result = append(result, medium...)
	return append(result, low...)
}

// tokenWeight scores how much a token identifies a substance
func tokenWeight(token string) float64 {
	if descriptiveTerms[token] {
		return weightDescriptive
	}
	if len(token) > 4 {
		for _, suffix := range chemicalSuffixes {
			if strings.HasSuffix(token, suffix) {
				return weightChemical
			}
		}
	}
	return weightDefault
}
