package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
)

func TestRedisKey(t *testing.T) {
	// Arrange
	rl, err := NewRedis(redis.NewClient(&redis.Options{}), Config{Limit: 1, Window: time.Minute})
	require.Nil(t, err)
	now := time.Date(2024, 5, 1, 10, 0, 30, 0, time.UTC)

	// Act
	key, resetAt := rl.key("U2:/api/access", now)

	// Assert
	require.Equal(t, "synkro:ratelimit:U2:/api/access:1714557600000", key)
	require.Equal(t, time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC), resetAt)

	// Act
	later, _ := rl.key("U2:/api/access", now.Add(29*time.Second))

	// Assert
	require.Equal(t, key, later)
}

func TestNewRedisErrors(t *testing.T) {
	// Act
	_, err := NewRedis(nil, DefaultConfig())

	// Assert
	require.ErrorIs(t, err, synkro.ErrBadConfig)
}

func TestRedisAllow(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	// Arrange
	opts, err := redis.ParseURL(url)
	require.Nil(t, err)

	ctx := context.Background()
	client := redis.NewClient(opts)
	defer client.Close()

	rl, err := NewRedis(client, Config{Limit: 2, Window: time.Minute})
	require.Nil(t, err)
	rl.prefix = "synkro:test:" + time.Now().Format(time.RFC3339Nano) + ":"

	// Act
	first, err := rl.Allow(ctx, "a")
	require.Nil(t, err)
	_, err = rl.Allow(ctx, "a")
	require.Nil(t, err)
	third, err := rl.Allow(ctx, "a")
	require.Nil(t, err)

	// Assert
	require.True(t, first.Allowed)
	require.Equal(t, 1, first.Remaining)
	require.False(t, third.Allowed)
	require.Zero(t, third.Remaining)
}
