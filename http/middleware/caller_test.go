package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/auth"
	"github.com/xy-planning-network/synkro/http/middleware"
)

// callerEcho writes the caller found in the request context, and the request body.
func callerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := synkro.CallerFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("X-Caller", id)
		w.WriteHeader(http.StatusOK)
	})
}

func TestInjectCaller(t *testing.T) {
	svc, err := auth.NewService("test-secret")
	require.Nil(t, err)

	token, err := svc.Issue("U2", "u2@x.com", time.Hour)
	require.Nil(t, err)

	tcs := []struct {
		name   string
		env    synkro.Environment
		req    func() *http.Request
		code   int
		caller string
	}{
		{
			"Bearer",
			synkro.Production,
			func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "https://example.com/api/access", nil)
				r.Header.Set("Authorization", "Bearer "+token)
				return r
			},
			http.StatusOK,
			"U2",
		},
		{
			"Jwt-Query",
			synkro.Production,
			func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "https://example.com/api/access?jwt="+token, nil)
			},
			http.StatusOK,
			"U2",
		},
		{
			"Bad-Token",
			synkro.Production,
			func() *http.Request {
				r := httptest.NewRequest(http.MethodGet, "https://example.com/api/access", nil)
				r.Header.Set("Authorization", "Bearer not.a.token")
				return r
			},
			http.StatusUnauthorized,
			"",
		},
		{
			"No-Token",
			synkro.Production,
			func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "https://example.com/api/access?callerId=U2", nil)
			},
			http.StatusNoContent,
			"",
		},
		{
			"Unverified-Query",
			synkro.Development,
			func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "https://example.com/api/access?callerId=U5", nil)
			},
			http.StatusOK,
			"U5",
		},
		{
			"Unverified-Form",
			synkro.Testing,
			func() *http.Request {
				body := url.Values{middleware.CallerIDParam: {"U9"}}.Encode()
				r := httptest.NewRequest(http.MethodPost, "https://example.com/api/access", strings.NewReader(body))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
			http.StatusOK,
			"U9",
		},
		{
			"Unverified-Json",
			synkro.Testing,
			func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "https://example.com/api/access", strings.NewReader(`{"callerId":"U9"}`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			http.StatusOK,
			"U9",
		},
		{
			"Unverified-Json-Malformed",
			synkro.Testing,
			func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "https://example.com/api/access", strings.NewReader(`{"callerId":`))
				r.Header.Set("Content-Type", "application/json")
				return r
			},
			http.StatusNoContent,
			"",
		},
		{
			"Unverified-None",
			synkro.Development,
			func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "https://example.com/api/access", nil)
			},
			http.StatusNoContent,
			"",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			w := httptest.NewRecorder()

			// Act
			middleware.InjectCaller(newResponder(), svc, tc.env)(callerEcho()).ServeHTTP(w, tc.req())

			// Assert
			require.Equal(t, tc.code, w.Code)
			require.Equal(t, tc.caller, w.Header().Get("X-Caller"))
		})
	}
}

func TestInjectCallerKeepsJsonBody(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "https://example.com/api/access", strings.NewReader(`{"callerId":"U2","resourceId":"recE1"}`))
	r.Header.Set("Content-Type", "application/json; charset=UTF-8")

	var body string

	// Act
	middleware.InjectCaller(newResponder(), nil, synkro.Testing)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		b := new(bytes.Buffer)
		_, err := b.ReadFrom(rx.Body)
		require.Nil(t, err)
		body = b.String()
	})).ServeHTTP(w, r)

	// Assert
	require.Equal(t, `{"callerId":"U2","resourceId":"recE1"}`, body)
}

func TestInjectCallerKeepsLargeJsonBody(t *testing.T) {
	// Arrange
	expected := `{"callerId":"U2","notes":"` + strings.Repeat("x", 2<<20) + `"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "https://example.com/api/access", strings.NewReader(expected))
	r.Header.Set("Content-Type", "application/json")

	var body string

	// Act
	middleware.InjectCaller(newResponder(), nil, synkro.Testing)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		b := new(bytes.Buffer)
		_, err := b.ReadFrom(rx.Body)
		require.Nil(t, err)
		require.Nil(t, rx.Body.Close())
		body = b.String()
	})).ServeHTTP(w, r)

	// Assert
	require.Len(t, body, len(expected))
	require.Equal(t, expected, body)
}

func TestRequireCaller(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/api/events", nil)

	// Act
	middleware.RequireCaller(newResponder())(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error":"missing data: authentication required"}`, w.Body.String())

	// Arrange
	w = httptest.NewRecorder()
	r = r.Clone(synkro.NewCallerContext(r.Context(), "U2"))

	// Act
	middleware.RequireCaller(newResponder())(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
}
