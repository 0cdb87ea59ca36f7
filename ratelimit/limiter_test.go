package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/ratelimit"
)

// fakeClock is a clock tests move forward by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestConfigValid(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  ratelimit.Config
		err  error
	}{
		{"Default", ratelimit.DefaultConfig(), nil},
		{"Zero-Prune", ratelimit.Config{Limit: 1, Window: time.Second}, nil},
		{"Zero-Limit", ratelimit.Config{Window: time.Second}, synkro.ErrBadConfig},
		{"Zero-Window", ratelimit.Config{Limit: 1}, synkro.ErrBadConfig},
		{"Negative-Prune", ratelimit.Config{Limit: 1, Window: time.Second, PruneInterval: -1}, synkro.ErrBadConfig},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := tc.cfg.Valid()

			// Assert
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected ratelimit.Strategy
		err      error
	}{
		{"", ratelimit.StrategyFixedWindow, nil},
		{"fixed", ratelimit.StrategyFixedWindow, nil},
		{" Redis ", ratelimit.StrategyRedis, nil},
		{"TOKEN", ratelimit.StrategyTokenBucket, nil},
		{"sliding", "", synkro.ErrBadConfig},
	} {
		t.Run(tc.input, func(t *testing.T) {
			// Act
			actual, err := ratelimit.ParseStrategy(tc.input)

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestResultRetryAfter(t *testing.T) {
	// Arrange
	now := time.Now()
	r := ratelimit.Result{ResetAt: now.Add(3 * time.Second)}

	// Act + Assert
	require.Equal(t, 3*time.Second, r.RetryAfter(now))
	require.Zero(t, r.RetryAfter(now.Add(time.Minute)))
}
