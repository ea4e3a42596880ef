package serializer

import "errors"

var (
	// ErrUnknownKind is returned when no schema has been registered for a
	// requested entity kind. This indicates a configuration error in the
	// host application, not a recoverable runtime condition.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrInvalidSchema is returned when a schema fails registration
	// validation.
	ErrInvalidSchema = errors.New("invalid serializer schema")

	// ErrSerializationFailure wraps malformed payloads and field conversion
	// failures. It is fatal for the single request it occurred on and does
	// not affect other cache entries.
	ErrSerializationFailure = errors.New("serialization failure")
)
