package usecase

import (
	"math"
	"strings"

	"github.com/chemsearch/backend/internal/domain"
)

// IsMinimalProduct reports whether d has the identity fields every listing
// needs before it is worth building: title, url and supplier.
func IsMinimalProduct(d *domain.ProductDraft) bool {
	if d == nil {
		return false
	}
	return strings.TrimSpace(d.Title) != "" &&
		strings.TrimSpace(d.URL) != "" &&
		strings.TrimSpace(d.Supplier) != ""
}

// IsValidVariant reports whether v carries at least one of the fields that
// make a variant distinct, price or quantity.
func IsValidVariant(v *domain.Variant) bool {
	if v == nil {
		return false
	}
	return v.Price != nil || v.Quantity != nil
}

// IsProduct is the full validity check applied at the end of Build
func IsProduct(d *domain.ProductDraft) bool {
	if !IsMinimalProduct(d) {
		return false
	}

	if !isFiniteNonNegative(d.Price) || !isFiniteNonNegative(d.USDPrice) || !isFiniteNonNegative(d.Quantity) {
		return false
	}

	if strings.TrimSpace(d.UOM) == "" || strings.TrimSpace(d.CurrencyCode) == "" {
		return false
	}

	if d.Availability != "" && !IsAvailability(d.Availability) {
		return false
	}

	if d.MatchPercentage != nil {
		m := *d.MatchPercentage
		if math.IsNaN(m) || m < 0 || m > 100 {
			return false
		}
	}

	return true
}

// IsAvailability reports whether v is one of the availability enum values
func IsAvailability(v any) bool {
	var s string
	switch a := v.(type) {
	case domain.Availability:
		s = string(a)
	case string:
		s = a
	default:
		return false
	}

	for _, known := range domain.Availabilities {
		if s == string(known) {
			return true
		}
	}
	return false
}

func isFiniteNonNegative(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0) && *f >= 0
}
