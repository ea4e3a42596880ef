package cache

import "errors"

// ErrNotFound is returned by Get when no entry exists for the requested
// address. Callers treat it as "not yet available" rather than a failure.
var ErrNotFound = errors.New("object cache: entry not found")
