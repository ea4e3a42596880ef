package config

import "errors"

// Validation errors returned by [StructuredConfig.validate].
var (
	// ErrNoBaseURL indicates that no repository base URL was provided by
	// any configuration source.
	ErrNoBaseURL = errors.New("no repository base url configured")
	// ErrNegativeAttempts indicates a negative flush attempt budget.
	ErrNegativeAttempts = errors.New("flush max attempts must not be negative")
)
