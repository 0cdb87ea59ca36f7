package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/ratelimit"
)

const (
	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
	RateLimitResetHeader     = "X-RateLimit-Reset"
	RetryAfterHeader         = "Retry-After"
)

// A SubjectFn names who a request is rate limited as.
// An empty subject is not rate limited.
type SubjectFn func(*http.Request) string

// CallerOrIP limits callers by their caller ID, falling back to their IP address.
func CallerOrIP(r *http.Request) string {
	if id, ok := synkro.CallerFromContext(r.Context()); ok {
		return id
	}

	if ip, ok := r.Context().Value(synkro.IpAddrKey).(string); ok && ip != "" {
		return ip
	}

	return GetIPAddress(r.Header)
}

// A RateLimitOptFn configures the RateLimit middleware.
type RateLimitOptFn func(*rateLimit)

// WithRejectHook calls fn on every request rejected for exceeding the limit.
func WithRejectHook(fn func(*http.Request)) RateLimitOptFn {
	return func(rl *rateLimit) {
		rl.onReject = fn
	}
}

// WithRateLimitClock sets the clock Retry-After is computed against.
func WithRateLimitClock(now func() time.Time) RateLimitOptFn {
	return func(rl *rateLimit) {
		rl.now = now
	}
}

type rateLimit struct {
	limiter  ratelimit.Limiter
	subject  SubjectFn
	log      logger.Logger
	onReject func(*http.Request)
	now      func() time.Time
}

// RateLimit limits requests per subject with limiter, writing the X-RateLimit-* headers
// on every response it sees.
//
// Rejected requests get 429 and a Retry-After header.
// When limiter itself fails, the request is let through and the failure logged.
//
// If limiter is nil, NoopAdapter returns and this middleware does nothing.
// A nil subject defaults to CallerOrIP.
func RateLimit(limiter ratelimit.Limiter, subject SubjectFn, log logger.Logger, opts ...RateLimitOptFn) Adapter {
	if limiter == nil {
		return NoopAdapter
	}

	rl := &rateLimit{limiter: limiter, subject: subject, log: log, now: time.Now}
	for _, opt := range opts {
		opt(rl)
	}

	if rl.subject == nil {
		rl.subject = CallerOrIP
	}

	if rl.log == nil {
		rl.log = logger.New()
	}

	return rl.adapt
}

func (rl *rateLimit) adapt(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := rl.subject(r)
		if subject == "" {
			h.ServeHTTP(w, r)
			return
		}

		res, err := rl.limiter.Allow(r.Context(), subject)
		if err != nil {
			rl.log.Error("rate limiter failed, allowing request", &logger.LogContext{
				Data:    map[string]any{"subject": subject},
				Error:   err,
				Request: r,
			})
			h.ServeHTTP(w, r)
			return
		}

		w.Header().Set(RateLimitLimitHeader, strconv.Itoa(res.Limit))
		w.Header().Set(RateLimitRemainingHeader, strconv.Itoa(res.Remaining))
		w.Header().Set(RateLimitResetHeader, strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			if rl.onReject != nil {
				rl.onReject(r)
			}

			secs := int((res.RetryAfter(rl.now()) + time.Second - 1) / time.Second)
			w.Header().Set(RetryAfterHeader, strconv.Itoa(secs))
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		h.ServeHTTP(w, r)
	})
}
