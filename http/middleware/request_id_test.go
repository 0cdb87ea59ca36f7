package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/http/middleware"
)

func TestRequestID(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	var actual string

	// Act
	middleware.RequestID()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		actual = synkro.RequestIDFromContext(rx.Context())
	})).ServeHTTP(w, r)

	// Assert
	require.NotZero(t, actual)
	require.Equal(t, actual, w.Header().Get(middleware.RequestIDHeader))
}
