package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ Limiter = (*TokenBucket)(nil)

// TokenBucket gives each subject a bucket of Limit tokens
// refilled at Limit per Window.
//
// A subject not seen for PruneInterval has its bucket discarded.
type TokenBucket struct {
	cfg   Config
	clock clock

	mu        sync.Mutex
	visitors  map[string]visitor
	lastPrune time.Time
}

// A visitor tracks a rate limiter and last seen time.
type visitor struct {
	lastSeen time.Time
	limiter  *rate.Limiter
}

// NewTokenBucket constructs a *TokenBucket, returning an error if cfg is not valid.
func NewTokenBucket(cfg Config, opts ...LimiterOptFn) (*TokenBucket, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	tb := &TokenBucket{
		cfg:      cfg.withDefaults(),
		clock:    newClock(opts),
		visitors: make(map[string]visitor),
	}
	tb.lastPrune = tb.clock.now()

	return tb, nil
}

// Allow takes a token from subject's bucket.
func (tb *TokenBucket) Allow(ctx context.Context, subject string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	now := tb.clock.now()
	lim := tb.fetch(subject, now)

	res := Result{Limit: tb.cfg.Limit, Allowed: lim.AllowN(now, 1)}
	tokens := lim.TokensAt(now)
	res.Remaining = max(0, int(math.Floor(tokens)))

	// The allowance resets once the next whole token arrives.
	missing := 1 - (tokens - math.Floor(tokens))
	res.ResetAt = now.Add(time.Duration(missing / float64(lim.Limit()) * float64(time.Second)))

	return res, nil
}

// fetch retrieves the visitor for subject, creating one if not seen.
func (tb *TokenBucket) fetch(subject string, now time.Time) *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.cleanup(now)

	v, ok := tb.visitors[subject]
	if !ok {
		every := rate.Every(tb.cfg.Window / time.Duration(tb.cfg.Limit))
		v = visitor{limiter: rate.NewLimiter(every, tb.cfg.Limit)}
	}

	v.lastSeen = now
	tb.visitors[subject] = v
	return v.limiter
}

// cleanup deletes visitors not seen in over PruneInterval.
func (tb *TokenBucket) cleanup(now time.Time) {
	if now.Sub(tb.lastPrune) < tb.cfg.PruneInterval {
		return
	}

	for subject, v := range tb.visitors {
		if now.Sub(v.lastSeen) > tb.cfg.PruneInterval {
			delete(tb.visitors, subject)
		}
	}

	tb.lastPrune = now
}

// Len reports how many subjects have a bucket.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	return len(tb.visitors)
}
