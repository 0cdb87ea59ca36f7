package resp

import (
	"net/http"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/logger"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w         http.ResponseWriter
	r         *http.Request
	closeBody bool
	code      int
	data      any
	caller    string
	err       error
}

// Caller includes the caller stashed in the *http.Request.Context in the response.
func Caller() Fn {
	return func(_ Responder, r *Response) error {
		r.caller, _ = synkro.CallerFromContext(r.r.Context())
		return nil
	}
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err logs e and sets the status code StatusFor returns for it,
// unless a status code has already been set.
//
// Errors mapping to a 5xx are logged at the error level, others at warn.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		r.err = e
		if e == nil {
			if r.code == 0 {
				r.code = http.StatusInternalServerError
			}

			return nil
		}

		if r.code == 0 {
			r.code = StatusFor(e)
		}

		lc := &logger.LogContext{Error: e, Request: r.r}
		if data, ok := r.data.(map[string]any); ok {
			lc.Data = data
		}

		if r.code >= http.StatusInternalServerError {
			d.logger.Error(e.Error(), lc)
		} else {
			d.logger.Warn(e.Error(), lc)
		}

		return nil
	}
}
