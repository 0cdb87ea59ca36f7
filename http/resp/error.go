package resp

import (
	"context"
	"errors"
	"net/http"

	"github.com/xy-planning-network/synkro"
)

var ErrDone = errors.New("request ctx done")

// StatusFor maps err onto the HTTP status code best describing it.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, synkro.ErrNotValid),
		errors.Is(err, synkro.ErrMissingData),
		errors.Is(err, synkro.ErrBadFormat),
		errors.Is(err, synkro.ErrParse):
		return http.StatusBadRequest
	case errors.Is(err, synkro.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, synkro.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, synkro.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, synkro.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
