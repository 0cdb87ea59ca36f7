package recordstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/xy-planning-network/synkro"
)

const (
	DefaultAPIURL   = "https://api.airtable.com/v0/"
	DefaultPageSize = 100
	DefaultTimeout  = 10 * time.Second
)

var (
	_ Store = (*Client)(nil)

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

// Config holds what a Client needs to reach a base in the record store API.
type Config struct {
	// APIURL is the root of the API, e.g., https://api.airtable.com/v0/.
	APIURL string

	// BaseID identifies the base holding synkro's tables.
	BaseID string

	// Token is the personal access token sent as a bearer token.
	Token string

	// Timeout bounds each request made to the API.
	Timeout time.Duration
}

// A Client is a Store backed by an Airtable-compatible REST API.
//
// Client makes a single round trip per request and does not retry:
// a failed request surfaces immediately as an error.
type Client struct {
	base     *url.URL
	token    string
	http     *http.Client
	pageSize int
}

// A ClientOptFn configures a Client when constructing one.
type ClientOptFn func(*Client)

// WithHTTPClient sets the *http.Client used for requests.
func WithHTTPClient(c *http.Client) ClientOptFn {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithPageSize sets how many records are requested per page when finding records.
func WithPageSize(n int) ClientOptFn {
	return func(cl *Client) {
		if n > 0 {
			cl.pageSize = n
		}
	}
}

// NewClient constructs a *Client from cfg.
//
// NewClient returns an error wrapping synkro.ErrBadConfig
// if the base ID or token are missing or the API URL cannot be parsed.
func NewClient(cfg Config, opts ...ClientOptFn) (*Client, error) {
	if cfg.BaseID == "" || cfg.Token == "" {
		return nil, fmt.Errorf("%w: record store base ID and token are required", synkro.ErrBadConfig)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	if !strings.HasSuffix(cfg.APIURL, "/") {
		cfg.APIURL += "/"
	}

	u, err := url.ParseRequestURI(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("%w: record store API URL: %s", synkro.ErrBadConfig, err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		base:     u.JoinPath(url.PathEscape(cfg.BaseID)),
		token:    cfg.Token,
		http:     &http.Client{Timeout: cfg.Timeout},
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

type fieldsBody struct {
	Fields Fields `json:"fields"`
}

// Find lists every record in table matching f, following pagination until exhausted.
func (c *Client) Find(ctx context.Context, table string, f Formula) ([]Record, error) {
	found := make([]Record, 0)
	var offset string
	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(c.pageSize))
		if f != nil {
			q.Set("filterByFormula", f.String())
		}

		if offset != "" {
			q.Set("offset", offset)
		}

		u := c.tableURL(table)
		u.RawQuery = q.Encode()

		var page listResponse
		if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			return nil, fmt.Errorf("finding %s: %w", table, err)
		}

		found = append(found, page.Records...)
		if page.Offset == "" {
			return found, nil
		}

		offset = page.Offset
	}
}

// Patch updates the named fields on the record.
func (c *Client) Patch(ctx context.Context, table, id string, fields Fields) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("%w: record id", synkro.ErrMissingData)
	}

	var rec Record
	err := c.do(ctx, http.MethodPatch, c.tableURL(table).JoinPath(url.PathEscape(id)), fieldsBody{fields}, &rec)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) && ue.Status == http.StatusNotFound {
			return Record{}, fmt.Errorf("%w: no record %s in %s", synkro.ErrNotExist, id, table)
		}

		return Record{}, fmt.Errorf("patching %s: %w", table, err)
	}

	return rec, nil
}

// Create inserts a record into table.
func (c *Client) Create(ctx context.Context, table string, fields Fields) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(table), fieldsBody{fields}, &rec); err != nil {
		return Record{}, fmt.Errorf("creating in %s: %w", table, err)
	}

	return rec, nil
}

func (c *Client) tableURL(table string) *url.URL {
	return c.base.JoinPath(url.PathEscape(table))
}

// do sends one request to the API, decoding a successful response into dst.
//
// Transport failures wrap synkro.ErrUpstream.
// Non-2xx responses return an *UpstreamError.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body any, dst any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encoding request: %s", synkro.ErrBadFormat, err)
		}

		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return fmt.Errorf("%w: %s", synkro.ErrUnexpected, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", synkro.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return decodeUpstreamError(res)
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding response: %s", synkro.ErrUpstream, err)
	}

	return nil
}

// decodeUpstreamError reads the error payload the API sends with a non-2xx response.
// The payload is either {"error": "TYPE"} or {"error": {"type": "TYPE", "message": "..."}}.
func decodeUpstreamError(res *http.Response) *UpstreamError {
	ue := &UpstreamError{Status: res.StatusCode}

	var payload struct {
		Error jsoniter.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&payload); err != nil || len(payload.Error) == 0 {
		return ue
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &detail); err == nil {
		ue.Type, ue.Message = detail.Type, detail.Message
		return ue
	}

	var typ string
	if err := json.Unmarshal(payload.Error, &typ); err == nil {
		ue.Type = typ
	}

	return ue
}
