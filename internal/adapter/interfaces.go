// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport boundary between halsync and the
// remote HAL repository, plus the notification collaborator that surfaces
// failures to the host application.
//
// The primary abstraction is [Transport]: a minimal send capability the
// request tracker dispatches through. The package ships an HTTP/REST
// implementation ([NewHTTPTransport]) built on resty. Transport-level
// failures are mapped to the sentinel values in errors.go so callers can use
// [errors.Is] regardless of the concrete transport.
package adapter

import (
	"context"

	"github.com/MKhiriev/halsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Transport sends a single request to the remote repository. Exactly one
// Send call is issued per dispatched request entry.
//
// A non-2xx response is not a Go error: it is reported through the returned
// [models.TransportResponse]. The error return is reserved for failures that
// produced no response at all (connection refused, timeout, cancelled
// context).
type Transport interface {
	// Send performs one HTTP call. method is one of GET, POST, PATCH or
	// DELETE; body may be nil for body-less methods.
	Send(ctx context.Context, method, address string, body []byte) (models.TransportResponse, error)
}

// Notifier is the external notification collaborator. Transport and flush
// failures are reported here in addition to surfacing through the
// read-model; the core never renders notifications itself.
type Notifier interface {
	// NotifyError reports a user-relevant failure with a short message.
	NotifyError(message string)
}

// TokenHolder is implemented by transports that attach bearer credentials
// to outgoing requests.
type TokenHolder interface {
	// SetToken stores the bearer token attached to subsequent requests.
	SetToken(token string)
	// Token returns the currently stored bearer token, or "".
	Token() string
	// TokenExpired reports whether the stored token carries an exp claim
	// that has already passed. A missing or unparsable token reports false;
	// only a positively expired claim is flagged.
	TokenExpired() bool
}
