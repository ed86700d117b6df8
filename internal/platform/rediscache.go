package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mfenderov/hermes-discovery/internal/model"
)

// channelCacheTTLRedis matches the in-process channel cache's 1h TTL so the
// cross-instance layer never outlives what the local cache would consider
// fresh.
const channelCacheTTLRedis = time.Hour

// RedisChannelCache is an optional, advisory cross-instance layer in front
// of the in-process channel-metadata cache: when multiple service instances
// share load, a channel fetched by one instance's channels.list call can be
// served to another without spending a second quota unit. A nil client
// (no REDIS_URL configured) makes every call a no-op, matching the
// teacher's own cache-aside pattern.
type RedisChannelCache struct {
	rdb *redis.Client
}

// NewRedisChannelCache builds the cache. If redisURL is empty or the
// connection fails, it returns a cache with a nil client (disabled).
func NewRedisChannelCache(redisURL string) *RedisChannelCache {
	if redisURL == "" {
		log.Println("platform: no REDIS_URL configured, cross-instance channel cache disabled")
		return &RedisChannelCache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("platform: invalid REDIS_URL, cross-instance channel cache disabled: %v", err)
		return &RedisChannelCache{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("platform: redis connection failed, cross-instance channel cache disabled: %v", err)
		return &RedisChannelCache{}
	}

	log.Println("platform: cross-instance channel cache connected")
	return &RedisChannelCache{rdb: rdb}
}

// GetChannel returns the cached profile for channelID, or ok=false if
// absent, disabled, or corrupt.
func (c *RedisChannelCache) GetChannel(ctx context.Context, channelID string) (*model.CreatorProfile, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, channelCacheKey(channelID)).Bytes()
	if err != nil {
		return nil, false
	}
	var profile model.CreatorProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, false
	}
	return &profile, true
}

// SetChannel stores profile for channelID. Errors are logged, never
// propagated — this cache is advisory.
func (c *RedisChannelCache) SetChannel(ctx context.Context, channelID string, profile model.CreatorProfile) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		log.Printf("platform: failed to marshal channel %s for cross-instance cache: %v", channelID, err)
		return
	}
	if err := c.rdb.Set(ctx, channelCacheKey(channelID), data, channelCacheTTLRedis).Err(); err != nil {
		log.Printf("platform: failed to store channel %s in cross-instance cache: %v", channelID, err)
	}
}

// Close shuts down the Redis connection, if any.
func (c *RedisChannelCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func channelCacheKey(channelID string) string {
	return fmt.Sprintf("channel-metadata:%s", channelID)
}
