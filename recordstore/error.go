package recordstore

import (
	"fmt"

	"github.com/xy-planning-network/synkro"
)

// An UpstreamError is a non-2xx response from the record store API.
//
// UpstreamError unwraps to synkro.ErrUpstream.
type UpstreamError struct {
	Status  int
	Type    string
	Message string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("record store responded %d", e.Status)
	if e.Type != "" {
		msg += " " + e.Type
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

func (*UpstreamError) Unwrap() error { return synkro.ErrUpstream }
