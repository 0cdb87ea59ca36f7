package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Limiter = (*FixedWindow)(nil)

// FixedWindow counts each subject's requests in consecutive windows, in memory.
//
// Counters live as long as the process does.
// Counters for windows that have ended are pruned lazily, at most once every PruneInterval.
type FixedWindow struct {
	cfg   Config
	clock clock

	mu        sync.Mutex
	counters  map[string]counter
	lastPrune time.Time
}

type counter struct {
	count   int
	resetAt time.Time
}

// NewFixedWindow constructs a *FixedWindow, returning an error if cfg is not valid.
func NewFixedWindow(cfg Config, opts ...LimiterOptFn) (*FixedWindow, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	fw := &FixedWindow{
		cfg:      cfg.withDefaults(),
		clock:    newClock(opts),
		counters: make(map[string]counter),
	}
	fw.lastPrune = fw.clock.now()

	return fw, nil
}

// Allow counts a request by subject against its current window.
func (fw *FixedWindow) Allow(ctx context.Context, subject string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	now := fw.clock.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.prune(now)

	c, ok := fw.counters[subject]
	if !ok || !now.Before(c.resetAt) {
		c = counter{resetAt: now.Add(fw.cfg.Window)}
	}

	c.count++
	fw.counters[subject] = c

	return Result{
		Allowed:   c.count <= fw.cfg.Limit,
		Limit:     fw.cfg.Limit,
		Remaining: max(0, fw.cfg.Limit-c.count),
		ResetAt:   c.resetAt,
	}, nil
}

// Len reports how many subjects have a counter.
func (fw *FixedWindow) Len() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	return len(fw.counters)
}

func (fw *FixedWindow) prune(now time.Time) {
	if now.Sub(fw.lastPrune) < fw.cfg.PruneInterval {
		return
	}

	for subject, c := range fw.counters {
		if !now.Before(c.resetAt) {
			delete(fw.counters, subject)
		}
	}

	fw.lastPrune = now
}
