package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/evonft/go-evonft/env"
	"github.com/go-redis/redis/v8"
)

// EvolveThrottleDB is the database number backing the evolution cooldown
const EvolveThrottleDB = 0

// ErrKeyNotFound is returned when a key is not present in the cache
type ErrKeyNotFound struct {
	Key string
}

func (e ErrKeyNotFound) Error() string {
	return fmt.Sprintf("key %s not found", e.Key)
}

// NotFound marks this error as a missing-key error for callers that only
// know the cache through an interface
func (e ErrKeyNotFound) NotFound() bool {
	return true
}

// Cache is a thin abstraction over a redis client with a key prefix
type Cache struct {
	client    *redis.Client
	keyPrefix string
}

// NewCache creates a new redis cache for the given database number, panicking
// if the deployment is unreachable
func NewCache(db int, keyPrefix string) *Cache {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{
		Addr:     env.GetString("REDIS_URL"),
		Password: env.GetString("REDIS_PASS"),
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		panic(err)
	}

	return &Cache{client: client, keyPrefix: keyPrefix}
}

// Set sets a value in the redis cache
func (c *Cache) Set(pCtx context.Context, key string, value []byte, expiration time.Duration) error {
	return c.client.Set(pCtx, c.getPrefixedKey(key), value, expiration).Err()
}

// Get gets a value from the redis cache
func (c *Cache) Get(pCtx context.Context, key string) ([]byte, error) {
	bs, err := c.client.Get(pCtx, c.getPrefixedKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrKeyNotFound{Key: key}
		}
		return nil, err
	}
	return bs, nil
}

// Delete removes a key from the redis cache
func (c *Cache) Delete(pCtx context.Context, key string) error {
	return c.client.Del(pCtx, c.getPrefixedKey(key)).Err()
}

// Close closes the underlying redis client
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) getPrefixedKey(key string) string {
	if c.keyPrefix == "" {
		return key
	}
	return c.keyPrefix + ":" + key
}
