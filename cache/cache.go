// cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis and verifies the connection.
func InitRedis(addr string) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return redisClient, nil
}

// Cache is a small JSON read-through cache over Redis. A nil Cache (or nil
// client) is valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// GetJSON loads key into out. Returns false on miss or any error; a broken
// cache is treated as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetJSON stores v under key with the cache TTL. Failures are ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// Invalidate drops a cached key.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, key)
}
