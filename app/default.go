package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/auth"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/ratelimit"
	"github.com/xy-planning-network/synkro/recordstore"
	"github.com/xy-planning-network/synkro/recordstore/pgstore"
)

const (
	baseURLEnvVar     = "BASE_URL"
	environmentEnvVar = "ENVIRONMENT"
	logLevelEnvVar    = "LOG_LEVEL"

	// Record store defaults
	recordStoreEnvVar     = "RECORD_STORE"
	airtableAPIURLEnvVar  = "AIRTABLE_API_URL"
	airtableBaseIDEnvVar  = "AIRTABLE_BASE_ID"
	airtableTokenEnvVar   = "AIRTABLE_TOKEN"
	airtableTimeoutEnvVar = "AIRTABLE_TIMEOUT"

	// Access defaults
	jwtSecretEnvVar      = "JWT_SECRET"
	onRevokedGrantEnvVar = "ON_REVOKED_GRANT"

	// Rate limit defaults
	redisURLEnvVar               = "REDIS_URL"
	rateLimitStrategyEnvVar      = "RATE_LIMIT_STRATEGY"
	rateLimitLimitEnvVar         = "RATE_LIMIT_LIMIT"
	rateLimitWindowEnvVar        = "RATE_LIMIT_WINDOW"
	rateLimitPruneIntervalEnvVar = "RATE_LIMIT_PRUNE_INTERVAL"

	// Web server defaults
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
)

// Record stores RECORD_STORE can name.
const (
	StoreAirtable = "airtable"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// defaultLogger constructs the logger.Logger used throughout the App.
func defaultLogger(env synkro.Environment) logger.Logger {
	lvl := logger.NewLogLevel(strings.ToUpper(os.Getenv(logLevelEnvVar)))
	if lvl == logger.LogLevelUnk {
		lvl = logger.LogLevelInfo
	}

	return logger.New(logger.WithEnv(env.String()), logger.WithLevel(lvl))
}

// defaultRedis connects to REDIS_URL, if set.
func defaultRedis() (*redis.Client, error) {
	u := os.Getenv(redisURLEnvVar)
	if u == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", synkro.ErrBadConfig, redisURLEnvVar, err)
	}

	return redis.NewClient(opts), nil
}

// defaultStore constructs the recordstore.Store RECORD_STORE names.
func (a *App) defaultStore() (recordstore.Store, error) {
	kind := strings.ToLower(synkro.EnvVarOrString(recordStoreEnvVar, StoreAirtable))
	switch kind {
	case StoreAirtable:
		return recordstore.NewClient(recordstore.Config{
			APIURL:  synkro.EnvVarOrString(airtableAPIURLEnvVar, recordstore.DefaultAPIURL),
			BaseID:  os.Getenv(airtableBaseIDEnvVar),
			Token:   os.Getenv(airtableTokenEnvVar),
			Timeout: synkro.EnvVarOrDuration(airtableTimeoutEnvVar, recordstore.DefaultTimeout),
		})

	case StorePostgres:
		db, err := pgstore.Connect(pgstore.NewCxnConfig(a.env), a.env)
		if err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", synkro.ErrUpstream, err)
		}

		a.health = append(a.health, sqlDB.PingContext)
		a.closers = append(a.closers, sqlDB.Close)

		return pgstore.New(db), nil

	case StoreMemory:
		if !a.env.CanUseServiceStub() {
			return nil, fmt.Errorf("%w: %s=%s is not available in %s", synkro.ErrBadConfig, recordStoreEnvVar, kind, a.env)
		}

		a.log.Warn("using the in-memory record store; nothing will persist", nil)
		return recordstore.NewMemory(), nil

	default:
		return nil, fmt.Errorf("%w: %s=%q", synkro.ErrBadConfig, recordStoreEnvVar, kind)
	}
}

// defaultVerifier constructs an *auth.Service signing with JWT_SECRET.
//
// Without JWT_SECRET, only environments allowing unverified callers have none.
func defaultVerifier(env synkro.Environment) (*auth.Service, error) {
	secret := os.Getenv(jwtSecretEnvVar)
	if secret == "" {
		if env.AllowsUnverifiedCaller() {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %s is required in %s", synkro.ErrBadConfig, jwtSecretEnvVar, env)
	}

	return auth.NewService(secret)
}

// defaultLimiter constructs the ratelimit.Limiter RATE_LIMIT_STRATEGY names.
func defaultLimiter(rdb *redis.Client) (ratelimit.Limiter, error) {
	strategy, err := ratelimit.ParseStrategy(os.Getenv(rateLimitStrategyEnvVar))
	if err != nil {
		return nil, err
	}

	cfg := ratelimit.Config{
		Limit:         synkro.EnvVarOrInt(rateLimitLimitEnvVar, ratelimit.DefaultLimit),
		Window:        synkro.EnvVarOrDuration(rateLimitWindowEnvVar, ratelimit.DefaultWindow),
		PruneInterval: synkro.EnvVarOrDuration(rateLimitPruneIntervalEnvVar, ratelimit.DefaultPruneInterval),
	}

	switch strategy {
	case ratelimit.StrategyRedis:
		if rdb == nil {
			return nil, fmt.Errorf("%w: %s=%s requires %s", synkro.ErrBadConfig, rateLimitStrategyEnvVar, strategy, redisURLEnvVar)
		}

		return ratelimit.NewRedis(rdb, cfg)

	case ratelimit.StrategyTokenBucket:
		return ratelimit.NewTokenBucket(cfg)

	default:
		return ratelimit.NewFixedWindow(cfg)
	}
}

// defaultRegistry constructs a *prometheus.Registry carrying the Go runtime and process collectors.
func defaultRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := synkro.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	return &http.Server{
		Addr:         port,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
		IdleTimeout:  synkro.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  synkro.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: synkro.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
}
