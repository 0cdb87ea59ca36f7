package middleware_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/http/middleware"
	"github.com/xy-planning-network/synkro/logger"
	"github.com/xy-planning-network/synkro/logger/loggertest"
)

func TestLogRequest(t *testing.T) {
	// Arrange + Act
	actual := middleware.LogRequest(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	ip := "192.168.0.0"
	testID := "test-id"
	useragent := "synkro/test"
	content := "very-secret/encoding; shhh"
	referrer := "example.com/referrer"
	respBody := "test"
	newExpected := func(expected middleware.LogRequestRecord) middleware.LogRequestRecord {
		expected.BodySize = len(respBody)
		expected.Host = "example.com"
		expected.ID = testID
		expected.Protocol = "HTTP/1.1"
		expected.Referrer = referrer
		expected.ReqContentType = content
		expected.Status = http.StatusOK
		expected.UserAgent = useragent

		return expected
	}

	tcs := []struct {
		name     string
		method   string
		ip       string
		caller   string
		url      *url.URL
		expected middleware.LogRequestRecord
	}{
		{
			"Zero-Value",
			http.MethodGet,
			"",
			"",
			&url.URL{Path: "/"},
			newExpected(middleware.LogRequestRecord{
				Method: http.MethodGet,
				Path:   "/",
				URI:    "/",
			}),
		},
		{
			"With-IP",
			http.MethodPost,
			ip,
			"",
			&url.URL{Path: "/"},
			newExpected(middleware.LogRequestRecord{
				IPAddr: ip,
				Method: http.MethodPost,
				Path:   "/",
				URI:    "/",
			}),
		},
		{
			"With-Caller",
			http.MethodGet,
			"",
			"U2",
			&url.URL{Path: "/api/access", RawQuery: "resourceId=recE1"},
			newExpected(middleware.LogRequestRecord{
				Caller: "U2",
				Method: http.MethodGet,
				Path:   "/api/access",
				URI:    "/api/access?resourceId=recE1",
			}),
		},
		{
			"With-Query-Params-Hid",
			http.MethodGet,
			ip,
			"",
			&url.URL{Scheme: "http", Path: "/", RawQuery: "param=true&password=hunter2&jwt=eyJ"},
			newExpected(middleware.LogRequestRecord{
				IPAddr: ip,
				Method: http.MethodGet,
				Path:   "/",
				URI:    "/?jwt=" + synkro.LogMaskVal + "&param=true&password=" + synkro.LogMaskVal,
				Scheme: "http",
			}),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l := loggertest.New()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, tc.url.String(), new(bytes.Reader))
			r = r.Clone(context.WithValue(r.Context(), synkro.RequestIDKey, testID))

			r.Header.Set("User-Agent", useragent)
			r.Header.Set("Content-Type", content)
			r.Header.Set("Referer", referrer)

			if tc.ip != "" {
				r = r.Clone(context.WithValue(r.Context(), synkro.IpAddrKey, tc.ip))
			}

			if tc.caller != "" {
				r = r.Clone(synkro.NewCallerContext(r.Context(), tc.caller))
			}

			// Act
			middleware.LogRequest(l)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
				fmt.Fprint(wx, respBody)
			})).ServeHTTP(w, r)

			// Assert
			entry, ok := l.Last()
			require.True(t, ok)
			require.Equal(t, logger.LogLevelInfo, entry.Level)
			require.Equal(t, synkro.HTTPLogKind, entry.Ctx.Data[synkro.LogKindKey])

			actual, ok := entry.Ctx.Data["request"].(middleware.LogRequestRecord)
			require.True(t, ok)

			actual.Duration = 0
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestLogRequestStatus(t *testing.T) {
	// Arrange
	l := loggertest.New()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "https://example.com/api/team/recG1", nil)

	// Act
	middleware.LogRequest(l)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	entry, ok := l.Last()
	require.True(t, ok)
	require.Equal(t, "DELETE /api/team/recG1 418", entry.Msg)
}
