package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserCache stores serialized users by id. A miss is (nil, nil).
type UserCache interface {
	GetByID(ctx context.Context, id string) ([]byte, error)
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type userCache struct {
	client *RedisClient
	prefix string
}

func NewUserCache(redisClient *RedisClient) UserCache {
	return &userCache{
		client: redisClient,
		prefix: "user:",
	}
}

func (c *userCache) key(id string) string {
	return c.prefix + id
}

func (c *userCache) GetByID(ctx context.Context, id string) ([]byte, error) {
	data, err := c.client.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}
	return data, nil
}

func (c *userCache) Set(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return c.client.client.Set(ctx, c.key(id), data, ttl).Err()
}

func (c *userCache) Delete(ctx context.Context, id string) error {
	return c.client.client.Del(ctx, c.key(id)).Err()
}

// NoopUserCache is used when Redis is disabled; every read is a miss.
type NoopUserCache struct{}

func (NoopUserCache) GetByID(context.Context, string) ([]byte, error)          { return nil, nil }
func (NoopUserCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoopUserCache) Delete(context.Context, string) error                     { return nil }
