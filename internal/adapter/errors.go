package adapter

import "errors"

// Sentinel errors mapped from transport-level failures. Matched with
// [errors.Is] by the tracker and the sync buffer.
var (
	// ErrTransportFailure wraps network and server errors that prevented a
	// response from being produced.
	ErrTransportFailure = errors.New("transport failure")

	// ErrUnsupportedMethod is returned for methods outside GET, POST,
	// PATCH and DELETE.
	ErrUnsupportedMethod = errors.New("unsupported http method")

	// ErrUnauthorized is returned when the server rejects the bearer
	// credentials attached to a request.
	ErrUnauthorized = errors.New("client unauthorized")
)
