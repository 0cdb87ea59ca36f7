package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/api"
	"github.com/xy-planning-network/synkro/auth"
	"github.com/xy-planning-network/synkro/http/middleware"
	"github.com/xy-planning-network/synkro/http/resp"
	"github.com/xy-planning-network/synkro/http/router"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/metrics"
	"github.com/xy-planning-network/synkro/provision"
	"github.com/xy-planning-network/synkro/ratelimit"
	"github.com/xy-planning-network/synkro/recordstore"
)

const shutdownTimeout = 5 * time.Second

// An App manages and exposes all components of a synkro service to one another.
type App struct {
	*resp.Responder
	*router.Router

	Evaluator   *access.Evaluator
	Provisioner *provision.Service

	ctx      context.Context
	env      synkro.Environment
	log      logger.Logger
	store    recordstore.Store
	rdb      *redis.Client
	limiter  ratelimit.Limiter
	verifier auth.Verifier
	policy   access.RevokedGrantPolicy
	reg      *prometheus.Registry
	metrics  *metrics.Metrics
	srv      *http.Server

	version, commit string

	// health checks the dependencies the App reaches over the network.
	health []func(context.Context) error

	// closers release those dependencies on Shutdown.
	closers []func() error
}

// New constructs an App from the provided options.
// Whatever the options leave unset is configured from environment variables.
//
// New returns an error wrapping synkro.ErrBadConfig if the configuration is unusable.
func New(opts ...Option) (*App, error) {
	a := new(App)
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("%w: %s", synkro.ErrBadConfig, err)
		}
	}

	if err := a.configure(); err != nil {
		a.close()
		return nil, err
	}

	a.assemble()

	return a, nil
}

// configure fills in every component the options did not set.
func (a *App) configure() error {
	if a.ctx == nil {
		a.ctx = context.Background()
	}

	if a.env == "" {
		a.env = synkro.EnvVarOrEnv(environmentEnvVar, synkro.Development)
	}

	if a.log == nil {
		a.log = defaultLogger(a.env)
	}

	if a.rdb == nil {
		rdb, err := defaultRedis()
		if err != nil {
			return err
		}

		if rdb != nil {
			a.useRedis(rdb)
		}
	}

	if a.store == nil {
		store, err := a.defaultStore()
		if err != nil {
			return err
		}

		a.store = store
	}

	if a.policy == "" {
		p, err := access.ParseRevokedGrantPolicy(os.Getenv(onRevokedGrantEnvVar))
		if err != nil {
			return err
		}

		a.policy = p
	}

	if a.verifier == nil {
		v, err := defaultVerifier(a.env)
		if err != nil {
			return err
		}

		// NOTE: keep a.verifier a nil interface, not one holding a nil *auth.Service.
		if v != nil {
			a.verifier = v
		}
	}

	if a.limiter == nil {
		l, err := defaultLimiter(a.rdb)
		if err != nil {
			return err
		}

		a.limiter = l
	}

	if a.reg == nil {
		a.reg = defaultRegistry()
	}

	m, err := metrics.New(a.reg, metrics.DefaultNamespace)
	if err != nil {
		return fmt.Errorf("%w: registering metrics: %s", synkro.ErrBadConfig, err)
	}

	a.metrics = m
	if a.version != "" {
		a.metrics.SetBuildInfo(a.version, a.commit)
	}

	if a.srv == nil {
		a.srv = defaultServer(a.ctx)
	}

	return nil
}

// assemble wires the configured components into the Router serving requests.
func (a *App) assemble() {
	a.Evaluator = access.NewEvaluator(
		a.store,
		access.WithLogger(a.log),
		access.WithObserver(a.metrics),
		access.WithRevokedGrantPolicy(a.policy),
	)
	a.Provisioner = provision.NewService(a.store, a.Evaluator, provision.WithLogger(a.log))

	a.Responder = resp.NewResponder(
		resp.WithLogger(a.log),
		resp.WithCtxKeys(map[synkro.Key]string{synkro.RequestIDKey: "requestId"}),
	)

	logReq := middleware.LogRequest(a.log)
	a.Router = router.New(a.env, logReq)
	a.Router.OnEveryRequest(
		middleware.ForceHTTPS(a.env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		logReq,
		middleware.CORS(synkro.EnvVarOrString(baseURLEnvVar, "")),
		a.metrics.Instrument,
	)
	a.Router.HandleNotFound(func(w http.ResponseWriter, r *http.Request) {
		a.Err(w, r, fmt.Errorf("%w: %s %s", synkro.ErrNotExist, r.Method, r.URL.Path))
	})

	var cache middleware.IdempotencyCacher
	if a.rdb != nil {
		cache = middleware.NewRedisCache(a.rdb)
	}

	api.New(
		a.Responder,
		a.Evaluator,
		a.Provisioner,
		api.WithIdempotencyCache(cache),
		api.WithMetrics(metrics.Handler(a.reg)),
		api.WithHealthCheck(a.healthy),
	).Register(
		a.Router,
		middleware.InjectCaller(a.Responder, a.verifier, a.env),
		middleware.RateLimit(
			a.limiter,
			middleware.CallerOrIP,
			a.log,
			middleware.WithRejectHook(a.metrics.RateLimited),
		),
	)

	a.srv.Handler = a.Router
}

// useRedis shares rdb between the components able to use it.
func (a *App) useRedis(rdb *redis.Client) {
	a.rdb = rdb
	a.health = append(a.health, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	a.closers = append(a.closers, rdb.Close)
}

// healthy reports the first dependency failing its health check.
func (a *App) healthy(ctx context.Context) error {
	for _, check := range a.health {
		if err := check(ctx); err != nil {
			return fmt.Errorf("%w: %s", synkro.ErrUpstream, err)
		}
	}

	return nil
}

func (a *App) Env() synkro.Environment { return a.env }
func (a *App) Logger() logger.Logger    { return a.log }
func (a *App) Store() recordstore.Store { return a.store }

// Serve begins the web server.
//
// These, and (*App).Shutdown, stop Serve:
//
//   - os.Interrupt
//   - syscall.SIGHUP
//   - syscall.SIGQUIT
//   - syscall.SIGTERM
func (a *App) Serve() error {
	ctx, cancel := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info(fmt.Sprintf("running web server at %s", a.srv.Addr), nil)
		if err := a.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		a.log.Error(err.Error(), nil)
		a.close()
		return err
	case <-ctx.Done():
		a.log.Info("received shutdown signal", nil)
	}

	return a.Shutdown()
}

// Shutdown shuts down the web server and releases the App's connections.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.log.Info("shutting down web server", nil)
	defer a.close()

	if err := a.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	a.log.Info("web server shutdown successfully", nil)
	return nil
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil && a.log != nil {
			a.log.Warn("closing connection", &logger.LogContext{Error: err})
		}
	}

	a.closers = nil
}
