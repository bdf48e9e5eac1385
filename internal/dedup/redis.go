package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces notification markers so the store can share a Redis
// database with other tenants.
const keyPrefix = "quake:notified:"

// RedisStore is the durable Store implementation. Dedup history survives
// process restarts; expiry is enforced server-side by Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedis builds a Store from a redis:// URL. The connection is not
// verified here; call Ping at startup.
func NewRedis(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// CheckAndMark issues a single SET NX EX, which is atomic on the Redis side:
// the marker is written only when absent, and the reply says which case
// occurred. Concurrent callers for the same id therefore race safely.
func (s *RedisStore) CheckAndMark(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	first, err := s.client.SetNX(ctx, keyPrefix+id, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return first, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
