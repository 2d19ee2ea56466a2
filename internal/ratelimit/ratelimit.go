package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a fixed-window rate limiter store for Echo's RateLimiter
// middleware, sharing counters across instances via Redis. It fails open:
// when Redis is unreachable, requests are allowed through.
type RedisStore struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// New creates a RedisStore allowing limit requests per identifier per window.
func New(client *redis.Client, limit int, window time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		limit:  limit,
		window: window,
	}
}

// NewClient creates the Redis client backing the store.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Allow implements echo middleware.RateLimiterStore. The identifier is the
// caller's IP.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	if s == nil || s.client == nil {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := "ratelimit:" + identifier
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		// fail open: rate limiting is best effort
		return true, nil
	}
	if count == 1 {
		_ = s.client.Expire(ctx, key, s.window).Err()
	}
	return count <= int64(s.limit), nil
}
