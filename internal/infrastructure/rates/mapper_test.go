package rates

import (
	"testing"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToRate(t *testing.T) {
	t.Run("unit amount", func(t *testing.T) {
		got, err := MapToRate(&LatestResponse{Amount: 1, Base: "EUR", Rates: map[string]float64{"USD": 1.08}}, "USD")
		require.NoError(t, err)
		assert.Equal(t, 1.08, got)
	})

	t.Run("scaled amount", func(t *testing.T) {
		got, err := MapToRate(&LatestResponse{Amount: 100, Base: "JPY", Rates: map[string]float64{"USD": 0.64}}, "USD")
		require.NoError(t, err)
		assert.InDelta(t, 0.0064, got, 1e-12)
	})

	t.Run("missing amount treated as one", func(t *testing.T) {
		got, err := MapToRate(&LatestResponse{Base: "GBP", Rates: map[string]float64{"USD": 1.27}}, "USD")
		require.NoError(t, err)
		assert.Equal(t, 1.27, got)
	})

	t.Run("missing target currency", func(t *testing.T) {
		_, err := MapToRate(&LatestResponse{Amount: 1, Base: "EUR", Rates: map[string]float64{"GBP": 0.85}}, "USD")
		assert.ErrorIs(t, err, domain.ErrRateAPIFailure)
	})

	t.Run("zero rate", func(t *testing.T) {
		_, err := MapToRate(&LatestResponse{Amount: 1, Rates: map[string]float64{"USD": 0}}, "USD")
		assert.ErrorIs(t, err, domain.ErrRateAPIFailure)
	})
}
