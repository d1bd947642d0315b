package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// USD is the currency every product price is normalized to
	USD = "USD"

	defaultRateTTL = time.Hour
)

// Converter converts prices between currencies using rates from a RateClient.
// Rates are cached; the amounts themselves never are.
type Converter struct {
	rates domain.RateClient
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewConverter creates a currency converter. cache may be nil.
func NewConverter(rates domain.RateClient, cache domain.CacheRepository, ttl time.Duration) *Converter {
	if ttl <= 0 {
		ttl = defaultRateTTL
	}
	return &Converter{
		rates: rates,
		cache: cache,
		ttl:   ttl,
	}
}

// ToUSD converts amount from currencyCode to US dollars, rounded to cents
func (c *Converter) ToUSD(ctx context.Context, amount float64, currencyCode string) (float64, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == USD {
		return amount, nil
	}

	rate, err := c.Rate(ctx, code, USD)
	if err != nil {
		return 0, err
	}

	converted := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Round(2)
	return converted.InexactFloat64(), nil
}

// Rate returns how many units of to one unit of from buys
func (c *Converter) Rate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	for _, code := range []string{from, to} {
		if !IsCurrencyCode(code) {
			return 0, fmt.Errorf("%w: %w %q", domain.ErrRateUnavailable, domain.ErrUnknownCurrency, code)
		}
	}

	if from == to {
		return 1, nil
	}

	key := rateCacheKey(from, to)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			if rate, ok := cached.(float64); ok && rate > 0 {
				return rate, nil
			}
		}
	}

	rate, err := c.rates.FetchRate(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("%w: %s to %s: %w", domain.ErrRateUnavailable, from, to, err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: %s to %s: non-positive rate %v", domain.ErrRateUnavailable, from, to, rate)
	}

	if c.cache != nil {
		// A failed cache write only costs a refetch next time
		_ = c.cache.Set(ctx, key, rate, c.ttl)
	}

	return rate, nil
}

func rateCacheKey(from, to string) string {
	return fmt.Sprintf("rate:%s:%s", from, to)
}
