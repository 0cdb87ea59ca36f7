package req

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/xy-planning-network/synkro"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Parser struct {
	queryParamDecoder queryParamDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		queryParamDecoder: newQueryParamDecoder(),
		validator:         newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in *http.Request.Body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire r.Body and can't be read from again.
// Use a [io.TeeReader] if r.Body needs to be reused after calling ParseBody.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	if err := checkStructPtr(structPtr); err != nil {
		return fmt.Errorf("synkro/http/req: ParseBody %w", err)
	}

	if err := json.NewDecoder(body).Decode(structPtr); err != nil {
		return fmt.Errorf("synkro/http/req: %w: failed decoding request body: %s", synkro.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("synkro/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseQueryParams decodes into a pointer to a struct the query param data in *http.Request.URL.Query.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := checkStructPtr(structPtr); err != nil {
		return fmt.Errorf("synkro/http/req: ParseQueryParams %w", err)
	}

	if err := p.queryParamDecoder.decode(structPtr, params); err != nil {
		return fmt.Errorf("synkro/http/req: failed decoding request query params: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("synkro/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseRequest decodes r into a pointer to a struct from wherever r carries its payload:
// a JSON body, a form body, or else the query params.
//
// Form bodies are decoded alongside the query params, as with ParseQueryParams.
func (p *Parser) ParseRequest(r *http.Request, structPtr any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return p.ParseQueryParams(r.URL.Query(), structPtr)
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/json":
		return p.ParseBody(r.Body, structPtr)

	case "application/x-www-form-urlencoded", "multipart/form-data", "":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("synkro/http/req: %w: failed parsing form: %s", synkro.ErrBadFormat, err)
		}

		return p.ParseQueryParams(r.Form, structPtr)

	default:
		return fmt.Errorf("synkro/http/req: %w: unsupported content type %q", synkro.ErrBadFormat, mt)
	}
}

// checkStructPtr asserts v is a non-nil pointer to a struct.
func checkStructPtr(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: called with %T, not a pointer to a struct", synkro.ErrUnexpected, v)
	}

	return nil
}
