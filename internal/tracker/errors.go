package tracker

import "errors"

// ErrNoAddress is returned by Configure when a request carries neither an
// address nor a resolvable identifier. Nothing is dispatched in that case.
var ErrNoAddress = errors.New("request tracker: no address to dispatch to")
