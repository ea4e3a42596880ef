package models

import "time"

// RequestState describes where a tracked request is in its lifecycle.
type RequestState string

const (
	// RequestStatePending marks a request that has been dispatched but has
	// not yet produced a terminal result.
	RequestStatePending RequestState = "pending"
	// RequestStateSuccess marks a request whose transport call completed
	// with a successful response.
	RequestStateSuccess RequestState = "success"
	// RequestStateError marks a request whose transport call failed or
	// returned an error response.
	RequestStateError RequestState = "error"
)

// Terminal reports whether the state admits no further automatic transition.
func (s RequestState) Terminal() bool {
	return s == RequestStateSuccess || s == RequestStateError
}

// RequestEntry is the tracked record of a single dispatched network call.
//
// An entry is created when the request tracker decides to dispatch and
// transitions exactly once from pending to a terminal state. Entries are
// never reused: a retry produces a new entry with a new ID, possibly for the
// same address.
type RequestEntry struct {
	// ID is an opaque unique identifier generated by the tracker.
	ID string
	// Address is the target resource URL.
	Address string
	// Method is the HTTP method the request was dispatched with.
	Method string
	// Kind is the entity kind the response payload is decoded as.
	Kind string
	// State is the current lifecycle state.
	State RequestState
	// Response holds the decoded payload or error detail once State is
	// terminal; nil while pending.
	Response *RequestResponse
	// Completed is true once a terminal state has been reached.
	Completed bool
	// Timestamp is the entry creation time, used for staleness checks.
	Timestamp time.Time
}

// RequestResponse is the terminal outcome stored on a completed entry.
type RequestResponse struct {
	// Status is the HTTP status code reported by the transport.
	Status int
	// Payload is the normalized payload of a successful response; nil for
	// responses without a body (e.g. DELETE) and for errors.
	Payload *NormalizedPayload
	// ErrorMessage carries the error detail of a failed request.
	ErrorMessage string
}

// TransportResponse is the raw result returned by the transport collaborator
// for a single send. Non-2xx statuses are not transport errors: they are
// reported through Successful and ErrorMessage.
type TransportResponse struct {
	Successful   bool
	Status       int
	Body         []byte
	ErrorMessage string
}
