package configs

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// OpenRedis returns nil when REDIS_URL is empty; the delivery-charge cache is optional.
func OpenRedis(ctx context.Context, env ENV) (*redis.Client, error) {
	if env.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(env.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
