// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service exposes the data-access operations applications call:
// typed find/create/update/delete against one entity kind of the remote
// repository, every result delivered as a RemoteData stream.
//
// No public operation fails synchronously. Errors — transport failures,
// exhausted flushes, serialization problems — surface exclusively through
// the stream's failed terminal state.
package service

import (
	"context"

	"github.com/MKhiriev/halsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// DataService is the outward contract of the data-access layer for a single
// entity kind.
type DataService interface {
	// FindAll requests the kind's collection, narrowed by opts. Options
	// that are unset contribute no query parameter at all.
	FindAll(ctx context.Context, opts models.FindAllOptions) <-chan models.RemoteData[models.PaginatedList[models.DomainObject]]

	// FindByID requests the entity with the given stable identifier. The
	// identifier index resolves the address; an unknown identifier falls
	// back to the collection-relative address convention.
	FindByID(ctx context.Context, id string) <-chan models.RemoteData[models.DomainObject]

	// FindByAddress requests the entity at a known resource address.
	FindByAddress(ctx context.Context, address string) <-chan models.RemoteData[models.DomainObject]

	// Create persists a new entity on the server, under the resource of
	// parentID when given, otherwise under the kind's collection.
	Create(ctx context.Context, obj models.DomainObject, parentID string) <-chan models.RemoteData[models.DomainObject]

	// Update diffs obj against the cached version and appends the
	// resulting patches to the sync buffer. Identical versions dispatch
	// nothing and succeed immediately.
	Update(ctx context.Context, obj models.DomainObject) <-chan models.RemoteData[models.DomainObject]

	// Delete removes the entity on the server. The stream delivers true on
	// confirmed deletion; on failure it delivers false and the cache entry
	// is retained.
	Delete(ctx context.Context, obj models.DomainObject) <-chan bool
}

// Codec is the serializer capability the service consumes: pure and total
// over the registered entity kinds.
type Codec interface {
	Normalize(obj models.DomainObject) (models.NormalizedObject, error)
	Denormalize(norm models.NormalizedObject) (models.DomainObject, error)
	EncodeObject(obj models.DomainObject) ([]byte, error)
}
