package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chemsearch/backend/config"
	"github.com/chemsearch/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		Rates: config.RatesConfig{BaseURL: "http://127.0.0.1:0"},
		Cache: config.CacheConfig{Type: "memory"},
	}
}

func TestNew_SnapshotsDisabled(t *testing.T) {
	a, err := New(context.Background(), baseConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Converter)
	assert.NotNil(t, a.Listings)
	assert.Nil(t, a.Snapshots)

	_, err = a.Listings.RestoreAndBuild(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrSnapshotsDisabled)
}

func TestNew_SnapshotsEnabled(t *testing.T) {
	cfg := baseConfig()
	cfg.Snapshot = config.SnapshotConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "snap.db")}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)

	require.NotNil(t, a.Snapshots)

	req := &domain.BuildRequest{
		Supplier: domain.SupplierInfo{Name: "Acme", BaseURL: "https://acme.example/"},
		Listings: []domain.RawListing{{Title: "Sodium Chloride", URL: "/p/1", Pricing: "$5.00", Quantity: "100 g"}},
	}
	snap, err := a.Listings.Snapshot(context.Background(), req)
	require.NoError(t, err)

	result, err := a.Listings.RestoreAndBuild(context.Background(), snap.ID)
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 5.0, result.Products[0].USDPrice)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close(), "second close is a no-op")
}

func TestNew_BadRedisURL(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache = config.CacheConfig{Type: "redis", RedisURL: "not a url"}

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
