package resp

import (
	"github.com/xy-planning-network/synkro"
	"github.com/xy-planning-network/synkro/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithCtxKeys reports the values stashed in the *http.Request.Context under keys
// in the "meta" object of every response, each under its paired name.
func WithCtxKeys(keys map[synkro.Key]string) func(*Responder) {
	return func(d *Responder) {
		d.injector = DefaultInjector{Keys: keys}
	}
}

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, logger.New configures one.
func WithLogger(log logger.Logger) func(*Responder) {
	return func(d *Responder) {
		d.logger = log
	}
}
