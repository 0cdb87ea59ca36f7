package auth

import "errors"

// ErrNoToken means the request carried no token at all,
// as opposed to carrying one that does not verify.
var ErrNoToken = errors.New("no token")
