package cache

import (
	"context"
	"time"

	appredis "aeobro.backend/pkg/redis"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ProfileCache stores rendered public profile documents
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]byte, bool, error)
	Set(ctx context.Context, userID uuid.UUID, doc []byte) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Noop caches nothing
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, uuid.UUID, []byte) error         { return nil }
func (Noop) Invalidate(context.Context, uuid.UUID) error          { return nil }

// RedisProfileCache keeps rendered documents in Redis with a TTL
type RedisProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisProfileCache(client redis.Cmdable, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func profileKey(userID uuid.UUID) string {
	return "public_profile:" + userID.String()
}

func (c *RedisProfileCache) Get(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, profileKey(userID)).Bytes()
	if appredis.IsMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, userID uuid.UUID, doc []byte) error {
	return c.client.Set(ctx, profileKey(userID), doc, c.ttl).Err()
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, profileKey(userID)).Err()
}
