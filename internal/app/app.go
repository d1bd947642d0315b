// Package app wires the configured infrastructure into the listing services
// shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chemsearch/backend/config"
	"github.com/chemsearch/backend/internal/domain"
	"github.com/chemsearch/backend/internal/infrastructure/cache"
	"github.com/chemsearch/backend/internal/infrastructure/rates"
	"github.com/chemsearch/backend/internal/infrastructure/snapshot"
	"github.com/chemsearch/backend/internal/observability"
	"github.com/chemsearch/backend/internal/pricing"
	"github.com/chemsearch/backend/internal/usecase"
)

const memoryCacheSweep = 5 * time.Minute

// App holds the long-lived services built from a Config
type App struct {
	Converter *pricing.Converter
	Listings  *usecase.ListingService
	Snapshots *snapshot.SQLiteStore // nil when snapshots are disabled

	closers []func() error
}

// New builds the cache, rate client, snapshot store and services described
// by cfg. Callers must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	if logger == nil {
		logger = observability.Nop()
	}
	a := &App{}

	rateCache, err := a.newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	client := rates.NewClient(rates.ClientConfig{
		BaseURL:           cfg.Rates.BaseURL,
		APIKey:            cfg.Rates.APIKey,
		Timeout:           cfg.Rates.Timeout,
		RequestsPerSecond: cfg.Rates.RequestsPerSecond,
		Burst:             cfg.Rates.Burst,
		MaxRetries:        cfg.Rates.MaxRetries,
	}, logger)
	client.SetDebug(cfg.Rates.Debug || cfg.Server.Environment == "development")

	a.Converter = pricing.NewConverter(client, rateCache, cfg.Cache.TTL)

	var store domain.SnapshotStore
	if cfg.Snapshot.Enabled {
		a.Snapshots, err = snapshot.Open(cfg.Snapshot.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, a.Snapshots.Close)
		store = a.Snapshots
	}

	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		MinScore:            cfg.Matching.MinScore,
		EnableFuzzyMatching: cfg.Matching.EnableFuzzy,
		EnableDebugLogging:  cfg.Matching.EnableDebugLogging,
	}, logger)

	a.Listings = usecase.NewListingService(a.Converter, store, matcher, logger, usecase.ListingServiceConfig{
		Concurrency: cfg.Server.Concurrency,
	})

	return a, nil
}

func (a *App) newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, error) {
	switch cfg.Type {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, Prefix: cfg.RedisPrefix})
		if err != nil {
			return nil, fmt.Errorf("connect rate cache: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		return c, nil
	default:
		c := cache.NewMemoryCache(memoryCacheSweep)
		a.closers = append(a.closers, c.Close)
		return c, nil
	}
}

// Close releases everything New opened, newest first
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
