// Package metrics exposes Prometheus collectors for the HTTP server,
// access decisions and rate limiting.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy-planning-network/synkro/access"
)

var _ access.Observer = (*Metrics)(nil)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "synkro"

// Metrics holds every collector, registered on a single prometheus.Registerer.
type Metrics struct {
	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	decisionsTotal  *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
	buildInfo       *prometheus.GaugeVec
}

// New constructs *Metrics and registers its collectors on reg.
// New returns an error if any collector is already registered.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "access_decisions_total",
				Help:      "Access decisions by result and the rule reaching them.",
			},
			[]string{"result", "rule", "reason"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the rate limiter.",
			},
			[]string{"path"},
		),
		buildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "build_info",
				Help:      "Build information.",
			},
			[]string{"version", "commit"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.inFlight,
		m.requestsTotal,
		m.requestDuration,
		m.decisionsTotal,
		m.rateLimited,
		m.buildInfo,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// SetBuildInfo sets build_info{version, commit} to 1.
func (m *Metrics) SetBuildInfo(version, commit string) {
	m.buildInfo.WithLabelValues(version, commit).Set(1)
}

// Instrument measures requests in flight, their count and their latency.
//
// Requests are labeled by the path template of the route they matched,
// so Instrument belongs in a route's middleware stack.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := routePath(r)
		status := strconv.Itoa(sw.code)
		m.requestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

// ObserveDecision counts d.
func (m *Metrics) ObserveDecision(d access.Decision) {
	result := "allowed"
	if !d.CanAccess {
		result = "denied"
	}

	m.decisionsTotal.WithLabelValues(result, d.Rule(), d.Reason.String()).Inc()
}

// RateLimited counts a request the rate limiter rejected.
func (m *Metrics) RateLimited(r *http.Request) {
	m.rateLimited.WithLabelValues(routePath(r)).Inc()
}

// routePath is the path template of the route r matched.
// Unmatched requests share one label to bound cardinality.
func routePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}

	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}

	w.ResponseWriter.WriteHeader(code)
}
