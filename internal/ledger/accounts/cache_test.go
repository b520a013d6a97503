package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	key, err := cache.BuildKey(ctx, "ledger", "accounts", "7")
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []string{"cash", "groceries"}, nil
	}

	var got []string
	require.NoError(t, cache.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, []string{"cash", "groceries"}, got)
	assert.Equal(t, 1, calls)

	got = nil
	require.NoError(t, cache.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, []string{"cash", "groceries"}, got)
	assert.Equal(t, 1, calls, "second fetch served from cache")
}

func TestCacheBumpInvalidates(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	before, err := cache.BuildKey(ctx, "ledger", "accounts", "7")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(ctx))

	after, err := cache.BuildKey(ctx, "ledger", "accounts", "7")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCacheNilClientPassthrough(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(nil, time.Minute)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]int{"total": 42}, nil
	}

	key, err := cache.BuildKey(ctx, "ledger", "accounts", "7")
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 42, got["total"])
	assert.Equal(t, 2, calls, "nil client always invokes the loader")

	require.NoError(t, cache.Bump(ctx))
}
