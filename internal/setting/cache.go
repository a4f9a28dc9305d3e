package setting

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds staleness if an invalidation is ever missed.
const cacheTTL = 10 * time.Minute

// Cache wraps Redis for the settings read path. Settings are read on
// every public page load, so reads go through Redis and writes
// invalidate.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) key(settingType string) string {
	return "settings:" + settingType
}

// Get returns the cached data for a settings type, or (nil, nil) on a
// miss. Cache failures are treated as misses.
func (c *Cache) Get(ctx context.Context, settingType string) (map[string]interface{}, error) {
	raw, err := c.rdb.Get(ctx, c.key(settingType)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores the data for a settings type.
func (c *Cache) Set(ctx context.Context, settingType string, data map[string]interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(settingType), raw, cacheTTL).Err()
}

// Invalidate drops the cached entry for a settings type.
func (c *Cache) Invalidate(ctx context.Context, settingType string) error {
	return c.rdb.Del(ctx, c.key(settingType)).Err()
}
