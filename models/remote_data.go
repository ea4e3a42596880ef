package models

// PaginatedList is a materialized page of domain objects together with its
// pagination metadata. CurrentPage is 1-based on the application side; the
// wire representation is 0-based.
type PaginatedList[T any] struct {
	Elements        []T
	CurrentPage     int
	ElementsPerPage int
	TotalElements   int
	TotalPages      int
}

// RemoteData is the derived read-model projected from a request entry and a
// cache entry pair. It is recomputed on every underlying change and never
// mutated in place by consumers.
type RemoteData[T any] struct {
	IsLoading    bool
	HasSucceeded bool
	HasFailed    bool
	ErrorMessage string
	// Payload is set once the response has materialized in the cache; nil
	// while loading or after a failure.
	Payload *T
}

// Loading returns the read-model for a request that has not reached a
// terminal state yet.
func Loading[T any]() RemoteData[T] {
	return RemoteData[T]{IsLoading: true}
}

// Succeeded returns a terminal successful read-model carrying payload.
func Succeeded[T any](payload T) RemoteData[T] {
	return RemoteData[T]{HasSucceeded: true, Payload: &payload}
}

// Failed returns a terminal failed read-model carrying the error message.
func Failed[T any](message string) RemoteData[T] {
	return RemoteData[T]{HasFailed: true, ErrorMessage: message}
}
