package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/tommy-mor/spare/internal/config"
	"github.com/tommy-mor/spare/internal/logging"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)

	rc, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()}, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	return mr, rc
}

func TestNewRedisClientPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr}, logging.NewNop())
	require.ErrorContains(t, err, "redis ping")
}

func TestUserCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, rc := newTestRedis(t)
	c := NewUserCache(rc)

	data, err := c.GetByID(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, c.Set(ctx, "abc", []byte(`{"id":"abc"}`), time.Minute))
	require.True(t, mr.Exists("user:abc"))
	require.Equal(t, time.Minute, mr.TTL("user:abc"))

	data, err = c.GetByID(ctx, "abc")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"abc"}`, string(data))

	require.NoError(t, c.Delete(ctx, "abc"))
	require.False(t, mr.Exists("user:abc"))
}

func TestUserCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mr, rc := newTestRedis(t)
	c := NewUserCache(rc)

	require.NoError(t, c.Set(ctx, "abc", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	data, err := c.GetByID(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestRedisPing(t *testing.T) {
	mr, rc := newTestRedis(t)
	require.NoError(t, rc.Ping(context.Background()))

	mr.Close()
	require.Error(t, rc.Ping(context.Background()))
}

func TestNoopUserCache(t *testing.T) {
	var c UserCache = NoopUserCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc", []byte("x"), time.Minute))
	data, err := c.GetByID(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, data)
	require.NoError(t, c.Delete(ctx, "abc"))
}
