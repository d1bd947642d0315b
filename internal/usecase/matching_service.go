package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/chemsearch/backend/internal/chem"
	"github.com/chemsearch/backend/internal/domain"
	"github.com/chemsearch/backend/internal/observability"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Token weight categories for scoring
const (
	weightChemical    = 3.0 // Substance names (chloride, ethanol, sodium)
	weightDescriptive = 2.0 // Form/hydration terms (anhydrous, powder)
	weightDefault     = 1.0 // Everything else
	fuzzyWeightFactor = 0.8 // Fuzzy matches get 80% of normal weight
)

// Scoring
const (
	substringMatchBonus = 10.0
	casMatchScore       = 100.0
	defaultMinScore     = 0.0
)

// extendedStopWords includes basic English stop words plus unit noise
var extendedStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"it": true, "as": true, "be": true, "per": true, "approx": true,
	"cas": true, "no": true,
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true,
	"gallon": true, "quart": true, "pint": true, "liter": true, "liters": true,
	"gram": true, "grams": true, "kg": true, "mg": true, "ul": true,
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MinScore            float64
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
	EnableDebugLogging  bool
}

// MatchingService scores supplier titles against a search query
type MatchingService struct {
	minScore            float64
	enableFuzzyMatching bool
	fuzzyEditDistance   int
	enableDebugLogging  bool
	preprocessor        *QueryPreprocessor
	logger              *observability.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig, logger *observability.Logger) *MatchingService {
	if logger == nil {
		logger = observability.Nop()
	}

	minScore := config.MinScore
	if minScore < 0 || minScore > 100 {
		minScore = defaultMinScore
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1 // Default edit distance of 1
	}

	return &MatchingService{
		minScore:            minScore,
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   fuzzyDist,
		enableDebugLogging:  config.EnableDebugLogging,
		preprocessor:        NewQueryPreprocessor(logger, false),
		logger:              logger.WithComponent("match"),
	}
}

// Accept reports whether a score clears the configured minimum
func (s *MatchingService) Accept(score float64) bool {
	return score >= s.minScore
}

// Score rates how well title matches query on a 0-100 scale. A query that
// is a CAS number matches titles containing that number exactly.
func (s *MatchingService) Score(query, title string) domain.MatchResult {
	result := domain.MatchResult{Title: title}

	if strings.TrimSpace(query) == "" || strings.TrimSpace(title) == "" {
		return result
	}

	if cas, ok := chem.FindCAS(query); ok && strings.TrimSpace(query) == cas {
		if strings.Contains(title, cas) {
			result.MatchScore = casMatchScore
			result.MatchedTokens = []string{cas}
		}
		return result
	}

	result.MatchScore, result.MatchedTokens = s.calculateMatchScore(query, title)

	if s.enableDebugLogging {
		s.logger.Debug().
			Str("query", query).
			Str("title", title).
			Float64("score", result.MatchScore).
			Strs("matched", result.MatchedTokens).
			Msg("scored title")
	}

	return result
}

// Rank scores every title against query and returns them best first.
// Titles below the minimum score are left out; ties keep input order.
func (s *MatchingService) Rank(ctx context.Context, query string, titles []string) ([]domain.FuzzResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	ranked := make([]domain.FuzzResult, 0, len(titles))
	for i, title := range titles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		score := s.Score(query, title).MatchScore
		if s.Accept(score) {
			ranked = append(ranked, domain.FuzzResult{Score: score, Idx: i})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}

// calculateMatchScore computes similarity between the query and a title.
// Uses a weighted combination of:
//   - Query token coverage, weighted by how much each token names a substance (most important)
//   - Title token coverage
//   - Jaccard similarity
//   - Substring bonus
//
// Returns the score (0-100) and the list of matched tokens.
func (s *MatchingService) calculateMatchScore(query, title string) (float64, []string) {
	cleanedQuery := s.preprocessor.PreprocessQuery(query)
	cleanedTitle := s.preprocessor.PreprocessQuery(title)
	queryTokens := tokenize(cleanedQuery)
	titleTokens := tokenize(cleanedTitle)

	if len(queryTokens) == 0 || len(titleTokens) == 0 {
		return 0, nil
	}

	exactCount, matchedTokens := findIntersection(queryTokens, titleTokens)
	exact := make(map[string]bool, len(matchedTokens))
	for _, t := range matchedTokens {
		exact[t] = true
	}

	var matchedWeight, totalWeight float64
	for _, qt := range uniqueTokens(queryTokens) {
		w := tokenWeight(qt)
		totalWeight += w

		if exact[qt] {
			matchedWeight += w
			continue
		}
		if !s.enableFuzzyMatching {
			continue
		}
		for _, tt := range titleTokens {
			if fuzzyTokenMatch(qt, tt, s.fuzzyEditDistance) {
				matchedWeight += w * fuzzyWeightFactor
				matchedTokens = append(matchedTokens, tt)
				break
			}
		}
	}

	queryCoverage := matchedWeight / totalWeight

	titleMatched, _ := findIntersection(titleTokens, queryTokens)
	titleCoverage := float64(titleMatched) / float64(len(uniqueTokens(titleTokens)))

	jaccard := float64(exactCount) / float64(findUnion(queryTokens, titleTokens))

	score := (queryCoverage*0.60 + titleCoverage*0.20 + jaccard*0.20) * 100

	if len(cleanedQuery) > 3 && (strings.Contains(cleanedTitle, cleanedQuery) || strings.Contains(cleanedQuery, cleanedTitle)) {
		score += substringMatchBonus
	}

	if score > 100 {
		score = 100
	}

	return score, matchedTokens
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words and pure numeric tokens.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	var tokens []string
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if extendedStopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to tokens > 4 chars to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
