package blacklist

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// package-level Redis client used for the access-token blacklist (optional)
var client *redis.Client

// SetClient configures the Redis client used for blacklist operations.
// Safe to call with nil to disable blacklist features.
func SetClient(c *redis.Client) {
	client = c
}

// Add stores the given token in the Redis blacklist with TTL.
// If no Redis client is configured, this is a no-op and returns nil.
func Add(ctx context.Context, token string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	key := "blacklist:access:" + token
	return client.Set(ctx, key, "1", ttl).Err()
}

// Contains returns true when the token exists in the Redis blacklist.
// If no Redis client is configured, returns (false, nil).
func Contains(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}
	key := "blacklist:access:" + token
	exists, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
