package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro/access"
	"github.com/xy-planning-network/synkro/metrics"
)

func TestNew(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()

	// Act
	_, err := metrics.New(reg, "")

	// Assert
	require.Nil(t, err)

	// Act
	_, err = metrics.New(reg, "")

	// Assert
	require.NotNil(t, err)
}

func TestInstrument(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "test")
	require.Nil(t, err)

	r := mux.NewRouter()
	r.Handle("/api/events/{eventID}", m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})))

	// Act
	for _, id := range []string{"recE1", "recE2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
	}

	// Assert
	expected := `
		# HELP test_http_requests_total Total number of HTTP requests.
		# TYPE test_http_requests_total counter
		test_http_requests_total{method="GET",path="/api/events/{eventID}",status="403"} 2
	`
	require.Nil(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_requests_total"))

	count, err := testutil.GatherAndCount(reg, "test_http_request_duration_seconds")
	require.Nil(t, err)
	require.Equal(t, 1, count)
}

func TestObserveDecision(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "test")
	require.Nil(t, err)

	// Act
	m.ObserveDecision(access.Decision{CanAccess: true, Permission: access.RoleViewer, ViaSharing: true})
	m.ObserveDecision(access.Decision{CanAccess: true, Permission: access.RoleOwner})
	m.ObserveDecision(access.Decision{Reason: access.ReasonCallerNotFound})

	// Assert
	expected := `
		# HELP test_access_decisions_total Access decisions by result and the rule reaching them.
		# TYPE test_access_decisions_total counter
		test_access_decisions_total{reason="",result="allowed",rule="owner"} 1
		test_access_decisions_total{reason="",result="allowed",rule="sharing"} 1
		test_access_decisions_total{reason="caller not found",result="denied",rule="denied"} 1
	`
	require.Nil(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_access_decisions_total"))
}

func TestRateLimited(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "test")
	require.Nil(t, err)

	// Act
	m.RateLimited(httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	// Assert
	expected := `
		# HELP test_rate_limited_requests_total Requests rejected by the rate limiter.
		# TYPE test_rate_limited_requests_total counter
		test_rate_limited_requests_total{path="unmatched"} 1
	`
	require.Nil(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_rate_limited_requests_total"))
}

func TestHandler(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg, "test")
	require.Nil(t, err)
	m.SetBuildInfo("v1.0.0", "abc123")

	w := httptest.NewRecorder()

	// Act
	metrics.Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `test_build_info{commit="abc123",version="v1.0.0"} 1`)
}
