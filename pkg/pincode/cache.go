package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Lookuper resolves pincodes
type Lookuper interface {
	Lookup(ctx context.Context, code string) (*Place, error)
}

// CachedClient keeps successful lookups in Redis. Pincodes rarely change, so
// entries live for ttl.
type CachedClient struct {
	next Lookuper
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedClient wraps next with a Redis cache
func NewCachedClient(next Lookuper, rdb *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(code string) string {
	return fmt.Sprintf("pincode:%s", code)
}

// Lookup serves from the cache and falls through to the wrapped client on a
// miss. Cache errors never fail a lookup.
func (c *CachedClient) Lookup(ctx context.Context, code string) (*Place, error) {
	if !codePattern.MatchString(code) {
		return nil, ErrInvalidCode
	}

	raw, err := c.rdb.Get(ctx, cacheKey(code)).Bytes()
	switch {
	case err == nil:
		var place Place
		if jsonErr := json.Unmarshal(raw, &place); jsonErr == nil {
			logger.Debug("Pincode cache hit", map[string]interface{}{"pincode": code})
			return &place, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.Warn("Pincode cache read failed", map[string]interface{}{
			"pincode": code,
			"error":   err.Error(),
		})
	}

	place, err := c.next.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(place); err == nil {
		if err := c.rdb.Set(ctx, cacheKey(code), data, c.ttl).Err(); err != nil {
			logger.Warn("Pincode cache write failed", map[string]interface{}{
				"pincode": code,
				"error":   err.Error(),
			})
		}
	}
	return place, nil
}
