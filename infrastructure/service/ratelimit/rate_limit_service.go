package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/fundbridge/fundbridge/infrastructure/service/logger"
)

// Service is a fixed-window request limiter keyed by caller identity. Used
// on the write endpoints (transfer initiation and decisions).
type Service interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Config configures the limiter.
type Config struct {
	Enabled  bool
	RedisURL string
	Limit    int
	Window   time.Duration
}

type redisService struct {
	client *redis.Client
	logger logger.Logger
}

// NewService creates a Redis-backed limiter, or a noop one when disabled.
func NewService(config Config, log logger.Logger) (Service, error) {
	if !config.Enabled {
		return &noopService{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisService{client: client, logger: log}, nil
}

// Allow increments the caller's window counter and reports whether the
// request is under the limit.
func (s *redisService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipeline := s.client.Pipeline()
	incrCmd := pipeline.Incr(ctx, key)
	pipeline.Expire(ctx, key, window)
	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{
			"key": key,
		})
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	count := incrCmd.Val()
	allowed := count <= int64(limit)
	if !allowed {
		s.logger.Warn(ctx, "Rate limit exceeded", map[string]interface{}{
			"key":   key,
			"count": count,
			"limit": limit,
		})
	}
	return allowed, nil
}

type noopService struct{}

func (*noopService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}
