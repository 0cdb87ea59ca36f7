package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/synkro"
)

var _ Limiter = (*Redis)(nil)

// DefaultRedisPrefix namespaces the keys Redis counts in.
const DefaultRedisPrefix = "synkro:ratelimit:"

// Redis counts each subject's requests in fixed windows stored in Redis,
// so every process sharing the Redis backend shares the allowance.
//
// Windows are aligned with time.Time.Truncate.
// Keys expire with their window, so PruneInterval is not used.
type Redis struct {
	client redis.Cmdable
	cfg    Config
	clock  clock
	prefix string
}

// NewRedis constructs a *Redis, returning an error if cfg is not valid.
func NewRedis(client redis.Cmdable, cfg Config, opts ...LimiterOptFn) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", synkro.ErrBadConfig)
	}

	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	return &Redis{client: client, cfg: cfg.withDefaults(), clock: newClock(opts), prefix: DefaultRedisPrefix}, nil
}

// Allow counts a request by subject against its current window.
func (rl *Redis) Allow(ctx context.Context, subject string) (Result, error) {
	now := rl.clock.now()
	key, resetAt := rl.key(subject, now)

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.PExpireAt(ctx, key, resetAt)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: counting %s: %s", synkro.ErrUpstream, subject, err)
	}

	count := int(incr.Val())
	return Result{
		Allowed:   count <= rl.cfg.Limit,
		Limit:     rl.cfg.Limit,
		Remaining: max(0, rl.cfg.Limit-count),
		ResetAt:   resetAt,
	}, nil
}

// key names the counter for subject's window containing now and when that window ends.
func (rl *Redis) key(subject string, now time.Time) (string, time.Time) {
	start := now.Truncate(rl.cfg.Window)
	return rl.prefix + subject + ":" + strconv.FormatInt(start.UnixMilli(), 10), start.Add(rl.cfg.Window)
}
