package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RateClient fetches the exchange rate for converting one unit of from into to
type RateClient interface {
	FetchRate(ctx context.Context, from, to string) (float64, error)
}

// CurrencyConverter converts amounts between currencies
type CurrencyConverter interface {
	ToUSD(ctx context.Context, amount float64, currencyCode string) (float64, error)
}

// SnapshotStore persists builder dumps so they can be rebuilt without re-scraping
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Load(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// Diagnostics receives non-fatal warnings and errors. Key/value pairs follow the message.
type Diagnostics interface {
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}
