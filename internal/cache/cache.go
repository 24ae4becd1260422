package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"strconv"       // Key formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache is a read-through cache for wallet balances and transaction histories
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error) // Unmarshal a cached value into dest
	Set(ctx context.Context, key string, value any) error        // Store a value with the cache TTL
	Delete(ctx context.Context, keys ...string) error            // Invalidate keys
}

// WalletKey is the cache key of a user's balance
func WalletKey(userID uint) string {
	return "wallet:user:" + strconv.FormatUint(uint64(userID), 10)
}

// HistoryKey is the cache key of a user's transaction history
func HistoryKey(userID uint) string {
	return "txhistory:user:" + strconv.FormatUint(uint64(userID), 10)
}

// UserKeys returns every key holding state derived from the given users' wallets
func UserKeys(userIDs ...uint) []string {
	keys := make([]string, 0, 2*len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, WalletKey(id), HistoryKey(id))
	}
	return keys
}

// RedisCache stores JSON values in Redis
type RedisCache struct {
	rdb *redis.Client // Redis client
	ttl time.Duration // TTL applied to every Set
}

// NewRedisCache wraps a Redis client
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// Set sets a value in Redis with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err() // Set value in Redis with TTL
}

// Delete deletes keys from Redis
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// Nop is used when no Redis is configured; every Get misses
type Nop struct{}

// Get always misses
func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards the value
func (Nop) Set(context.Context, string, any) error { return nil }

// Delete does nothing
func (Nop) Delete(context.Context, ...string) error { return nil }
