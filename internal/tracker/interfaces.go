// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tracker is the single authority over network dispatch. It records
// every remote call as a request entry, deduplicates logical requests so
// that at most one call per address is in flight, and exposes entry state
// as observable streams.
package tracker

import "github.com/MKhiriev/halsync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/tracker_mock.go -package=mock

// Normalizer decodes a raw response body into the normalized payload shape.
// Implemented by the serializer codec; consumed as a pure capability.
type Normalizer interface {
	DecodePayload(kind string, body []byte) (models.NormalizedPayload, error)
}

// ResponseSink consumes each terminal request entry exactly once, in the
// dispatch goroutine, before any observer sees the terminal state. The data
// service uses this hook to populate the object cache and the identifier
// index from successful responses.
type ResponseSink interface {
	Consume(entry models.RequestEntry)
}
