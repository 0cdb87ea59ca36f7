package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/ratelimit"
)

func TestTokenBucketAllow(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := newFakeClock()
	tb, err := ratelimit.NewTokenBucket(
		ratelimit.Config{Limit: 2, Window: 2 * time.Second},
		ratelimit.WithClock(clock.Now),
	)
	require.Nil(t, err)

	// Act
	first, err := tb.Allow(ctx, "127.0.0.1")
	require.Nil(t, err)
	second, err := tb.Allow(ctx, "127.0.0.1")
	require.Nil(t, err)
	third, err := tb.Allow(ctx, "127.0.0.1")
	require.Nil(t, err)

	// Assert
	require.True(t, first.Allowed)
	require.Equal(t, 1, first.Remaining)
	require.True(t, second.Allowed)
	require.Zero(t, second.Remaining)
	require.False(t, third.Allowed)
	require.Equal(t, time.Second, third.RetryAfter(clock.Now()))

	// Arrange
	clock.Advance(time.Second)

	// Act
	refilled, err := tb.Allow(ctx, "127.0.0.1")

	// Assert
	require.Nil(t, err)
	require.True(t, refilled.Allowed)
}

func TestTokenBucketCleanup(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := newFakeClock()
	tb, err := ratelimit.NewTokenBucket(
		ratelimit.Config{Limit: 5, Window: time.Second, PruneInterval: time.Hour},
		ratelimit.WithClock(clock.Now),
	)
	require.Nil(t, err)

	_, err = tb.Allow(ctx, "a")
	require.Nil(t, err)
	_, err = tb.Allow(ctx, "b")
	require.Nil(t, err)

	// Act
	clock.Advance(61 * time.Minute)
	_, err = tb.Allow(ctx, "c")

	// Assert
	require.Nil(t, err)
	require.Equal(t, 1, tb.Len())
}

func TestTokenBucketBadConfig(t *testing.T) {
	// Act
	_, err := ratelimit.NewTokenBucket(ratelimit.Config{Limit: 1})

	// Assert
	require.ErrorIs(t, err, synkro.ErrBadConfig)
}
