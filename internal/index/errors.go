package index

import "errors"

// ErrNotFound is returned by Resolve and ResolveReverse when no binding
// exists for the requested key. Callers should match it with [errors.Is]
// and treat it as "not yet available" unless a terminal error says
// otherwise.
var ErrNotFound = errors.New("identifier index: mapping not found")
