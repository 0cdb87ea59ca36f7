package synkro

import "errors"

var (
	ErrBadConfig      = errors.New("bad config")
	ErrBadFormat      = errors.New("bad format")
	ErrForbidden      = errors.New("forbidden")
	ErrMissingData    = errors.New("missing data")
	ErrNotExist       = errors.New("not exist")
	ErrNotImplemented = errors.New("not implemented")
	ErrNotValid       = errors.New("invalid")
	ErrParse          = errors.New("parse failure")
	ErrUnexpected     = errors.New("unexpected")

	// ErrUpstream marks failures reaching or reading from a service synkro depends on,
	// e.g., the record store.
	ErrUpstream = errors.New("upstream failure")
)
