// Package rediscache implements the response cache port on Redis.
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
)

const keyPrefix = "soc-metrics:upstream:"

// Cache stores raw upstream responses in Redis. It implements
// ports.ResponseCache.
type Cache struct {
	client *redis.Client
}

var _ ports.ResponseCache = (*Cache)(nil)

// Connect creates a Redis client and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// NewCache creates a response cache backed by the given Redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached value for key. The second return is false when the
// key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

// Set stores value under key for ttl. A non-positive ttl stores nothing:
// an unexpiring upstream snapshot would serve stale tickets forever.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, redisKey(key), value, ttl).Err()
}

// redisKey hashes the caller's key. Request URLs carry credentials-adjacent
// query strings and can exceed sane key lengths.
func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return keyPrefix + hex.EncodeToString(sum[:])
}
