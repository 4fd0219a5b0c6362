// internal/persist/redis.go
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetgrid/orgctx/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisVault stores checkpoint slices and access tokens in Redis, so a
// session resumes the same tenant context across API node restarts.
type RedisVault struct {
	client *redis.Client
}

func NewRedisVault(client *redis.Client) *RedisVault {
	return &RedisVault{client: client}
}

func (v *RedisVault) Get(ctx context.Context, key string) (string, error) {
	value, err := v.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("getting key %q: %w", key, err)
	}
	return value, nil
}

func (v *RedisVault) Set(ctx context.Context, key, value string) error {
	if err := v.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("setting key %q: %w", key, err)
	}
	return nil
}

func (v *RedisVault) Remove(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}
