// README: Cache tests using miniredis and a counting stub source.
package maps

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDistancer struct {
	meters int64
	err    error
	calls  int
}

func (s *stubDistancer) Distance(_ context.Context, _, _ string) (int64, error) {
	s.calls++
	return s.meters, s.err
}

func newTestCache(t *testing.T, inner Distancer) *CachedDistancer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCachedDistancer(rdb, inner)
}

func TestCachedDistancerMissThenHit(t *testing.T) {
	src := &stubDistancer{meters: 4200}
	cache := newTestCache(t, src)
	ctx := context.Background()

	meters, err := cache.Distance(ctx, "Station", "Mall")
	require.NoError(t, err)
	assert.Equal(t, int64(4200), meters)
	assert.Equal(t, 1, src.calls)

	meters, err = cache.Distance(ctx, "Station", "Mall")
	require.NoError(t, err)
	assert.Equal(t, int64(4200), meters)
	assert.Equal(t, 1, src.calls, "second lookup must be served from cache")
}

func TestCachedDistancerDistinctPairs(t *testing.T) {
	src := &stubDistancer{meters: 100}
	cache := newTestCache(t, src)
	ctx := context.Background()

	_, err := cache.Distance(ctx, "A", "B")
	require.NoError(t, err)
	_, err = cache.Distance(ctx, "B", "A")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls, "reverse direction is a different key")
}

func TestCachedDistancerSourceErrorNotCached(t *testing.T) {
	src := &stubDistancer{err: errors.New("quota exceeded")}
	cache := newTestCache(t, src)
	ctx := context.Background()

	_, err := cache.Distance(ctx, "Station", "Mall")
	require.Error(t, err)

	src.err = nil
	src.meters = 900
	meters, err := cache.Distance(ctx, "Station", "Mall")
	require.NoError(t, err)
	assert.Equal(t, int64(900), meters)
	assert.Equal(t, 2, src.calls)
}

func TestCachedDistancerRedisDownDegrades(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	src := &stubDistancer{meters: 777}
	cache := NewCachedDistancer(rdb, src)
	mr.Close()

	meters, err := cache.Distance(context.Background(), "Station", "Mall")
	require.NoError(t, err)
	assert.Equal(t, int64(777), meters)
}
