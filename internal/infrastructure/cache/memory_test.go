package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/chemsearch/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
		want  interface{}
	}{
		{
			name:  "exchange rate comes back as float64",
			key:   "rate:EUR:USD",
			value: 1.0853,
			want:  1.0853,
		},
		{
			name:  "ints are normalized like JSON",
			key:   "count",
			value: 3,
			want:  float64(3),
		},
		{
			name:  "string",
			key:   "symbol",
			value: "€",
			want:  "€",
		},
		{
			name:  "map",
			key:   "quote",
			value: map[string]interface{}{"base": "EUR", "rate": 1.1},
			want:  map[string]interface{}{"base": "EUR", "rate": 1.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, cache.Set(ctx, tt.key, tt.value, time.Minute))

			got, err := cache.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "rate:GBP:USD", 1.27, time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := cache.Get(ctx, "rate:GBP:USD")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := cache.Exists(ctx, "rate:GBP:USD")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_SetUnmarshalable(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()

	err := cache.Set(context.Background(), "bad", make(chan int), time.Minute)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Size())
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 1.0, time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	// Deleting a missing key is not an error
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.Set(ctx, "k", 1.0, time.Minute))
	exists, err = cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCache_SweepAndClear(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "old", 1.0, time.Millisecond))
	require.NoError(t, cache.Set(ctx, "fresh", 2.0, time.Minute))
	time.Sleep(5 * time.Millisecond)

	cache.sweep()
	assert.Equal(t, 1, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	cache := NewMemoryCache(time.Millisecond)
	assert.NoError(t, cache.Close())
	assert.NoError(t, cache.Close())
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(0)
	defer cache.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("rate:%d", i%5)
			_ = cache.Set(ctx, key, float64(i), time.Minute)
			_, _ = cache.Get(ctx, key)
			_, _ = cache.Exists(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Size())
}
