package middleware

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/auth"
	"github.com/xy-planning-network/synkro/http/resp"
)

const (
	CallerIDParam = "callerId"

	// maxPeekBody bounds how much of a JSON body InjectCaller reads looking for CallerIDParam.
	maxPeekBody = 1 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InjectCaller stashes the caller ID of the request in its context under synkro.CallerIDKey.
//
// A token, from the Authorization header or the "jwt" query parameter, is verified with v.
// A request carrying a token v rejects gets 401.
//
// Requests without a token are passed on as is, without a caller,
// unless env allows unverified callers: then the callerId query parameter,
// form value or JSON body field names the caller.
//
// If d is nil, NoopAdapter returns and this middleware does nothing.
func InjectCaller(d *resp.Responder, v auth.Verifier, env synkro.Environment) Adapter {
	if d == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := auth.FromRequest(r); ok && v != nil {
				id, err := v.Verify(token)
				if err != nil {
					d.Err(w, r, err, resp.Code(http.StatusUnauthorized))
					return
				}

				h.ServeHTTP(w, r.Clone(synkro.NewCallerContext(r.Context(), id)))
				return
			}

			if !env.AllowsUnverifiedCaller() {
				h.ServeHTTP(w, r)
				return
			}

			id, err := unverifiedCaller(r)
			if err != nil {
				d.Err(w, r, err)
				return
			}

			if id == "" {
				h.ServeHTTP(w, r)
				return
			}

			h.ServeHTTP(w, r.Clone(synkro.NewCallerContext(r.Context(), id)))
		})
	}
}

// RequireCaller responds with 401 to requests InjectCaller found no caller for.
func RequireCaller(d *resp.Responder) Adapter {
	if d == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := synkro.CallerFromContext(r.Context()); !ok {
				err := fmt.Errorf("%w: authentication required", synkro.ErrMissingData)
				d.Err(w, r, err, resp.Code(http.StatusUnauthorized))
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}

// unverifiedCaller finds CallerIDParam in the query string, then the body of r.
// The body of r remains readable afterwards.
func unverifiedCaller(r *http.Request) (string, error) {
	if id := r.URL.Query().Get(CallerIDParam); id != "" {
		return id, nil
	}

	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return r.FormValue(CallerIDParam), nil

	case "application/json":
		b, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBody))
		r.Body = readCloser{io.MultiReader(bytes.NewReader(b), r.Body), r.Body}
		if err != nil {
			return "", fmt.Errorf("%w: reading body: %s", synkro.ErrParse, err)
		}

		var body struct {
			CallerID string `json:"callerId"`
		}
		if len(bytes.TrimSpace(b)) == 0 {
			return "", nil
		}

		if err := json.Unmarshal(b, &body); err != nil {
			return "", nil
		}

		return body.CallerID, nil

	default:
		return "", nil
	}
}

// readCloser replays a peeked prefix ahead of the rest of a body
// and closes the original body.
type readCloser struct {
	io.Reader
	io.Closer
}
