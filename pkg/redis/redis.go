package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/customer-records-backend/config"
	"github.com/ikkim/customer-records-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Connect opens a client and pings it. The caller owns the returned client.
func Connect(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// Close closes client if it is not nil
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	return client.Close()
}
