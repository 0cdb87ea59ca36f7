package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xy-planning-network/synkro"
)

var _ synkro.Enumerable = Strategy("")

// A Limiter decides whether subject may make another request.
//
// An error means the decision could not be made; the Result is then meaningless.
type Limiter interface {
	Allow(ctx context.Context, subject string) (Result, error)
}

// A Result describes the state of a subject's allowance after a call to Allow.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long, from now, until the subject's allowance resets.
// It is never negative.
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}

	return d
}

const (
	DefaultLimit         = 60
	DefaultWindow        = time.Minute
	DefaultPruneInterval = 5 * time.Minute
)

// Config sets the allowance every subject gets.
type Config struct {
	// Limit is the number of requests allowed per Window.
	Limit int

	// Window is the length of each counting window.
	Window time.Duration

	// PruneInterval is how often state for idle subjects is discarded.
	// Zero defaults to DefaultPruneInterval.
	PruneInterval time.Duration
}

// DefaultConfig allows DefaultLimit requests per DefaultWindow.
func DefaultConfig() Config {
	return Config{Limit: DefaultLimit, Window: DefaultWindow, PruneInterval: DefaultPruneInterval}
}

// Valid asserts the Config can bound requests.
func (c Config) Valid() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", synkro.ErrBadConfig, c.Limit)
	}

	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %s", synkro.ErrBadConfig, c.Window)
	}

	if c.PruneInterval < 0 {
		return fmt.Errorf("%w: prune interval must not be negative, got %s", synkro.ErrBadConfig, c.PruneInterval)
	}

	return nil
}

func (c Config) withDefaults() Config {
	if c.PruneInterval == 0 {
		c.PruneInterval = DefaultPruneInterval
	}

	return c
}

// A Strategy names a Limiter implementation.
type Strategy string

const (
	StrategyFixedWindow Strategy = "fixed"
	StrategyRedis       Strategy = "redis"
	StrategyTokenBucket Strategy = "token"
)

func (s Strategy) String() string { return string(s) }

func (s Strategy) Valid() error {
	switch s {
	case StrategyFixedWindow, StrategyRedis, StrategyTokenBucket:
		return nil
	default:
		return fmt.Errorf("%w: rate limit strategy %q", synkro.ErrNotValid, string(s))
	}
}

// ParseStrategy reads a Strategy from text, ignoring case.
// Empty text returns StrategyFixedWindow.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if st == "" {
		return StrategyFixedWindow, nil
	}

	if err := st.Valid(); err != nil {
		return "", fmt.Errorf("%w: %s", synkro.ErrBadConfig, err)
	}

	return st, nil
}

// A LimiterOptFn configures a Limiter when constructing one.
type LimiterOptFn func(*clock)

// WithClock replaces time.Now; tests use it to move time forward.
func WithClock(now func() time.Time) LimiterOptFn {
	return func(c *clock) {
		c.now = now
	}
}

type clock struct {
	now func() time.Time
}

func newClock(opts []LimiterOptFn) clock {
	c := clock{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}
