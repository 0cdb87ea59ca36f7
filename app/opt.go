package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/auth"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/ratelimit"
	"github.com/xy-planning-network/synkro/recordstore"
)

// An Option configures an *App under construction.
type Option func(a *App) error

// WithBuildInfo reports version and commit as the synkro_build_info metric.
func WithBuildInfo(version, commit string) Option {
	return func(a *App) error {
		a.version, a.commit = version, commit
		return nil
	}
}

// WithContext sets the context.Context every request's context derives from.
// Cancelling ctx stops Serve.
func WithContext(ctx context.Context) Option {
	return func(a *App) error {
		a.ctx = ctx
		return nil
	}
}

// WithEnv casts envVar into a valid Environment,
// instead of reading it from the ENVIRONMENT environment variable.
func WithEnv(envVar string) Option {
	return func(a *App) error {
		e := synkro.Environment(envVar)
		if err := e.Valid(); err != nil {
			return fmt.Errorf("environment %q: %w", envVar, err)
		}

		a.env = e
		return nil
	}
}

// WithLogger sets the logger.Logger every component logs through.
func WithLogger(l logger.Logger) Option {
	return func(a *App) error {
		a.log = l
		return nil
	}
}

// WithLimiter sets the ratelimit.Limiter bounding requests to /api.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(a *App) error {
		a.limiter = l
		return nil
	}
}

// WithRedis shares the *redis.Client with the rate limiter and idempotency cache,
// instead of connecting to REDIS_URL.
func WithRedis(rdb *redis.Client) Option {
	return func(a *App) error {
		a.useRedis(rdb)
		return nil
	}
}

// WithRegistry registers metrics on reg and serves them at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) error {
		a.reg = reg
		return nil
	}
}

// WithRevokedGrantPolicy sets how callers whose grant is not active are treated.
func WithRevokedGrantPolicy(p access.RevokedGrantPolicy) Option {
	return func(a *App) error {
		if err := p.Valid(); err != nil {
			return err
		}

		a.policy = p
		return nil
	}
}

// WithServer sets the *http.Server Serve runs.
// Its Handler is replaced by the App's Router.
func WithServer(s *http.Server) Option {
	return func(a *App) error {
		a.srv = s
		return nil
	}
}

// WithStore sets the recordstore.Store synkro reads and writes,
// instead of the one RECORD_STORE names.
func WithStore(s recordstore.Store) Option {
	return func(a *App) error {
		a.store = s
		return nil
	}
}

// WithVerifier sets the auth.Verifier checking bearer tokens,
// instead of one signing with JWT_SECRET.
func WithVerifier(v auth.Verifier) Option {
	return func(a *App) error {
		a.verifier = v
		return nil
	}
}
