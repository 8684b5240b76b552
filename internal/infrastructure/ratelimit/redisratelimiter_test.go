package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisRateLimiter_Allow_PerMinute(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	config := RateLimitConfig{RequestsPerMinute: 5}
	key := "create:42"

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, key, config)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, config)
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")

	allowed, err = limiter.Allow(ctx, "create:43", config)
	require.NoError(t, err)
	assert.True(t, allowed, "other users keep their own budget")
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	config := RateLimitConfig{RequestsPerMinute: 2}
	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "upvote:7", config)
		require.NoError(t, err)
		require.True(t, allowed)
		now = now.Add(time.Millisecond)
	}

	allowed, err := limiter.Allow(ctx, "upvote:7", config)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, err = limiter.Allow(ctx, "upvote:7", config)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_GetRemainingAndReset(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	config := RateLimitConfig{RequestsPerMinute: 5}
	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "create:1", config)
		require.NoError(t, err)
	}

	remaining, err := limiter.GetRemaining(ctx, "create:1", time.Minute, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
	assert.True(t, mr.Exists("ratelimit:create:1:1m0s"))

	require.NoError(t, limiter.Reset(ctx, "create:1"))
	assert.False(t, mr.Exists("ratelimit:create:1:1m0s"))

	remaining, err = limiter.GetRemaining(ctx, "create:1", time.Minute, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "create:1", RateLimitConfig{RequestsPerMinute: 1})
	assert.Error(t, err)
}
