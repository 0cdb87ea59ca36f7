package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/logger"
)

// A LogRequestRecord is what LogRequest reports about a request and its response.
type LogRequestRecord struct {
	BodySize       int           `json:"bodySize"`
	Caller         string        `json:"caller,omitempty"`
	Duration       time.Duration `json:"duration"`
	Host           string        `json:"host"`
	ID             string        `json:"id,omitempty"`
	IPAddr         string        `json:"ipAddr,omitempty"`
	Method         string        `json:"method"`
	Path           string        `json:"path"`
	Protocol       string        `json:"protocol"`
	Referrer       string        `json:"referrer,omitempty"`
	ReqContentType string        `json:"reqContentType,omitempty"`
	Scheme         string        `json:"scheme,omitempty"`
	Status         int           `json:"status"`
	URI            string        `json:"uri"`
	UserAgent      string        `json:"userAgent,omitempty"`
}

// LogRequest logs a LogRequestRecord for each request once it has been handled
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values of the query parameters in synkro.MaskedParams.
// Headers are never logged.
//
// If logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &recorder{ResponseWriter: w}
			h.ServeHTTP(rw, r)

			rec := NewLogRequestRecord(r)
			rec.BodySize = rw.size
			rec.Duration = time.Since(start)
			rec.Status = rw.Status()

			ls.Info(fmt.Sprintf("%s %s %d", rec.Method, rec.URI, rec.Status), &logger.LogContext{
				Data: map[string]any{synkro.LogKindKey: synkro.HTTPLogKind, "request": rec},
			})
		})
	}
}

// NewLogRequestRecord collects what can be known about r before responding to it.
func NewLogRequestRecord(r *http.Request) LogRequestRecord {
	q := r.URL.Query()
	for _, key := range synkro.MaskedParams {
		synkro.Mask(q, key)
	}

	uri := r.URL.Path
	if query := q.Encode(); query != "" {
		uri += "?" + query
	}

	rec := LogRequestRecord{
		Host:           r.Host,
		ID:             synkro.RequestIDFromContext(r.Context()),
		Method:         r.Method,
		Path:           r.URL.Path,
		Protocol:       r.Proto,
		Referrer:       r.Referer(),
		ReqContentType: r.Header.Get("Content-Type"),
		Scheme:         r.URL.Scheme,
		URI:            uri,
		UserAgent:      r.UserAgent(),
	}

	rec.Caller, _ = synkro.CallerFromContext(r.Context())
	if ip, ok := r.Context().Value(synkro.IpAddrKey).(string); ok {
		rec.IPAddr = ip
	}

	return rec
}

// A recorder notes the status code and body size written through it.
type recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *recorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}

	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}

	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Status is the code written, 200 when the handler wrote nothing.
func (rw *recorder) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}

	return rw.status
}
