package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set CHEMSEARCH_TEST_REDIS_URL (e.g. redis://localhost:6379/15) to run these
func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("CHEMSEARCH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("CHEMSEARCH_TEST_REDIS_URL not set")
	}

	cache, err := NewRedisCache(context.Background(), RedisConfig{
		URL:    url,
		Prefix: "chemsearch-test:" + uuid.NewString() + ":",
	})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisConfig{URL: "not-a-url"})
	assert.Error(t, err)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rate:EUR:USD", 1.0853, time.Minute))

	got, err := cache.Get(ctx, "rate:EUR:USD")
	require.NoError(t, err)
	assert.Equal(t, 1.0853, got)

	exists, err := cache.Exists(ctx, "rate:EUR:USD")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "rate:EUR:USD"))
	_, err = cache.Get(ctx, "rate:EUR:USD")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", 1.0, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	exists, err := cache.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)
}
