package chem

import (
	"regexp"
	"strings"
)

var (
	casExact  = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)
	casSearch = regexp.MustCompile(`\b\d{2,7}-\d{2}-\d\b`)
)

// IsCAS reports whether s is a CAS registry number in strict form with a valid check digit
func IsCAS(s string) bool {
	if !casExact.MatchString(s) {
		return false
	}
	return casChecksumValid(s)
}

// FindCAS returns the first CAS registry number embedded in text.
// Candidates whose check digit does not validate are skipped.
func FindCAS(text string) (string, bool) {
	for _, candidate := range casSearch.FindAllString(text, -1) {
		if casChecksumValid(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// casChecksumValid checks the trailing digit against the weighted sum of the
// other digits, weights counting up from 1 at the rightmost one.
func casChecksumValid(cas string) bool {
	digits := strings.ReplaceAll(cas, "-", "")
	if len(digits) < 5 {
		return false
	}

	check := int(digits[len(digits)-1] - '0')
	body := digits[:len(digits)-1]

	sum := 0
	for i := 0; i < len(body); i++ {
		d := int(body[len(body)-1-i] - '0')
		sum += d * (i + 1)
	}

	return sum%10 == check
}
