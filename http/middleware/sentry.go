package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/synkro"
)

// ReportPanic recovers panics in the handlers it wraps and reports them to Sentry.
//
// In development, panics are left alone so they surface in the terminal.
func ReportPanic(env synkro.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler {
		return sh.Handle(h)
	}
}
