package database

import (
	"context"
	"fmt"

	"github.com/Aidin1998/foodgram/internal/config"
	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to the configured redis instance.
// It returns nil without error when no address is set.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}
