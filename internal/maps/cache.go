// README: Redis read-through cache in front of the distance collaborator.
package maps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	distanceKeyPrefix = "distance:%s|%s"
	// Locations are free text and do not move; a week keeps analytics
	// recomputation off the Maps API without growing the keyspace forever.
	distanceKeyTTL = 7 * 24 * time.Hour
)

// Distancer mirrors the analytics collaborator interface so the cache can
// wrap any distance source.
type Distancer interface {
	Distance(ctx context.Context, origin, destination string) (int64, error)
}

// CachedDistancer serves distances from redis and falls back to the wrapped
// source on a miss. Cache errors degrade to the underlying call.
type CachedDistancer struct {
	redis *redis.Client
	inner Distancer
}

func NewCachedDistancer(rdb *redis.Client, inner Distancer) *CachedDistancer {
	return &CachedDistancer{redis: rdb, inner: inner}
}

func (c *CachedDistancer) Distance(ctx context.Context, origin, destination string) (int64, error) {
	key := distanceKey(origin, destination)

	// A miss, an unreachable cache, and a corrupt value all fall through to
	// the source.
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		if meters, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return meters, nil
		}
	}

	meters, err := c.inner.Distance(ctx, origin, destination)
	if err != nil {
		return 0, err
	}
	_ = c.redis.Set(ctx, key, strconv.FormatInt(meters, 10), distanceKeyTTL).Err()
	return meters, nil
}

func distanceKey(origin, destination string) string {
	return fmt.Sprintf(distanceKeyPrefix, origin, destination)
}
