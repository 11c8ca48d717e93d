package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// HealthCheck pings the Redis server.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// GetStats exposes the client's connection pool counters.
func (s *CacheService) GetStats() *redis.PoolStats {
	return s.client.PoolStats()
}

// NotificationChannel is the pub/sub channel carrying a user's realtime
// in-app notifications.
func NotificationChannel(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

// Publish marshals payload to JSON and publishes it on channel.
func (s *CacheService) Publish(ctx context.Context, channel string, payload interface{}) error {
	data, err := marshal(payload)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, channel, data).Err()
}
