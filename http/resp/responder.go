package resp

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/xy-planning-network/synkro/logger"
)

const responderFrames = 0

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Responder maintains reusable pieces for responding to HTTP requests.
// It exposes methods for writing structured data as a JSON HTTP response.
//
// Most oftentimes, setting up a single instance of a Responder suffices for an application.
//
// When handling a specific HTTP request, calling code supplies additional data, structure,
// and so forth through Fn functions.
type Responder struct {
	logger   logger.Logger
	injector ContextInjector

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		injector: NoopInjector{},
		pool:     &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New()
	}

	if l, ok := d.logger.(logger.SkipLogger); ok {
		d.logger = l.AddSkip(responderFrames)
	}

	return d
}

type jsonSchema struct {
	C string         `json:"caller,omitempty"`
	D any            `json:"data,omitempty"`
	E string         `json:"error,omitempty"`
	M map[string]any `json:"meta,omitempty"`
}

// Err responds with err's message under "error",
// logging err and setting the status code as Err does.
//
// A nil err responds with 500 and the generic status text.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	if jerr := doer.Json(w, r, append(opts, Err(err))...); jerr != nil {
		http.Error(w, jerr.Error(), http.StatusInternalServerError)
	}
}

// Json responds with data in JSON format, collating it from Caller(), Data() and Err(),
// and setting appropriate headers.
//
// The status code defaults to 200.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.closeBody && r.Body != nil {
		defer r.Body.Close()
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	payload := jsonSchema{C: rr.caller, D: rr.data}
	if rr.code >= http.StatusBadRequest {
		payload.E = http.StatusText(rr.code)
		if rr.err != nil && rr.code < http.StatusInternalServerError {
			payload.E = rr.err.Error()
		}
	}

	meta := make(map[string]any)
	doer.injector.Inject(meta, r.Context())
	if len(meta) > 0 {
		payload.M = meta
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(payload); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// do applies all options to the passed in http.ResponseWriter and *http.Request.
//
// Calling code ought to pass Options in the correct order.
// An option requiring something set by another one should come after.
// do nonetheless retries calling functional options until all do not return errors or,
// a set of options unable to not return errors is reached.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	resp := &Response{
		closeBody: true,
		w:         w,
		r:         r,
	}

	redos := make([]Fn, 0)
	for _, opt := range opts {
		select {
		case <-r.Context().Done():
			return nil, fmt.Errorf("%w", ErrDone)
		default:
			if err := opt(*doer, resp); err != nil {
				redos = append(redos, opt)
			}
		}
	}

	i := -1
	for i != len(redos) {
		select {
		case <-r.Context().Done():
			return nil, fmt.Errorf("%w", ErrDone)
		default:
			// NOTE: redo shrinks redos; once it stops shrinking,
			// the remaining options will not stop returning errors.
			i = len(redos)
			redos = doer.redo(resp, redos...)
		}
	}

	var err error
	for _, opt := range redos {
		if nested := opt(*doer, resp); nested != nil {
			if err == nil {
				err = nested
				continue
			}

			err = fmt.Errorf("%w: %s", nested, err)
		}
	}

	return resp, err
}

// redo applies as many Options as it can, returning those Options that continue to throw an error.
func (doer *Responder) redo(r *Response, opts ...Fn) []Fn {
	bad := make([]Fn, 0)
	for _, opt := range opts {
		if err := opt(*doer, r); err != nil {
			bad = append(bad, opt)
		}
	}

	return bad
}
