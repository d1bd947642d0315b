package rates

import (
	"fmt"

	"github.com/chemsearch/backend/internal/domain"
)

// LatestResponse is the body of GET /latest
type LatestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// MapToRate extracts the per-unit rate for currency to. Responses quoted for
// an amount other than 1 are scaled back down.
func MapToRate(resp *LatestResponse, to string) (float64, error) {
	value, ok := resp.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in response for base %s", domain.ErrRateAPIFailure, to, resp.Base)
	}

	if resp.Amount > 0 && resp.Amount != 1 {
		value = value / resp.Amount
	}

	if value <= 0 {
		return 0, fmt.Errorf("%w: non-positive %s rate", domain.ErrRateAPIFailure, to)
	}

	return value, nil
}
