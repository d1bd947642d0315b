package domain

import "errors"

var (
	// ErrIncompleteProduct is returned by Build when title, url or supplier is missing
	ErrIncompleteProduct = errors.New("product is missing title, url or supplier")

	// ErrInvalidProduct is returned by Build when the finished product fails validation
	ErrInvalidProduct = errors.New("product failed validation")

	// ErrBuilderConsumed is returned when Build is called a second time on the same builder
	ErrBuilderConsumed = errors.New("product builder already consumed")

	// ErrRateUnavailable is returned when an exchange rate cannot be obtained
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrUnknownCurrency is returned for currency codes that are not ISO 4217
	ErrUnknownCurrency = errors.New("unknown currency code")

	// ErrRateAPIFailure is returned when the exchange rate API request fails
	ErrRateAPIFailure = errors.New("exchange rate API request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSnapshotNotFound is returned when no stored snapshot matches an id
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotsDisabled is returned when no snapshot store is configured
	ErrSnapshotsDisabled = errors.New("snapshot storage is disabled")
)

// IsDiscard reports whether err means "no product produced" rather than a failure.
// Callers skip the listing for these.
func IsDiscard(err error) bool {
	return errors.Is(err, ErrIncompleteProduct) || errors.Is(err, ErrInvalidProduct)
}
