package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

var _ Verifier = (*Service)(nil)

// A Verifier verifies tokens and reports the caller ID they were issued to.
type Verifier interface {
	Verify(token string) (string, error)
}

// A Claims is what a token asserts about its caller.
type Claims struct {
	CallerID  string
	Email     string
	ExpiresAt time.Time
}

const (
	bearerPrefix = "Bearer "
	queryParam   = "jwt"
)

// FromHeader extracts the bearer token from the Authorization header.
func FromHeader(h http.Header) (string, bool) {
	v := h.Get("Authorization")
	if len(v) <= len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	return v[len(bearerPrefix):], true
}

// FromQuery extracts the token from the jwt query parameter.
func FromQuery(v url.Values) (string, bool) {
	t := v.Get(queryParam)
	return t, t != ""
}

// FromRequest extracts the token from r, preferring the Authorization header.
func FromRequest(r *http.Request) (string, bool) {
	if t, ok := FromHeader(r.Header); ok {
		return t, true
	}

	return FromQuery(r.URL.Query())
}
