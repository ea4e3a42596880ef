// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package remotedata projects request-tracker and object-cache state into
// the RemoteData read-model streams handed to callers. The projection is
// pure: it never mutates either underlying store, and every emitted value
// is recomputed from their state at that moment.
package remotedata

import (
	"context"

	"github.com/MKhiriev/halsync/internal/cache"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/tracker"
	"github.com/MKhiriev/halsync/models"
)

// streamBuffer sizes result channels; a projection emits a handful of
// states at most before its terminal value.
const streamBuffer = 8

// Denormalizer reconstructs domain objects from their normalized form.
// Implemented by the serializer codec.
type Denormalizer interface {
	Denormalize(norm models.NormalizedObject) (models.DomainObject, error)
}

// Builder composes tracker and cache state into read-model streams.
type Builder struct {
	tracker *tracker.Tracker
	cache   *cache.Cache
	codec   Denormalizer
	logger  *logger.Logger
}

// NewBuilder returns a builder projecting from trk and c, denormalizing
// payloads with codec.
func NewBuilder(trk *tracker.Tracker, c *cache.Cache, codec Denormalizer, log *logger.Logger) *Builder {
	return &Builder{tracker: trk, cache: c, codec: codec, logger: log}
}

// BuildSingle streams the read-model for a single-resource request. The
// stream opens with the current state, re-emits on every tracker or cache
// change, and closes after its sticky terminal value. Cancelling ctx ends
// the stream without affecting the underlying request.
//
// A successful request whose payload has not yet materialized in the cache
// stays in the loading state; that transient is not an error.
func (b *Builder) BuildSingle(ctx context.Context, requestID, address string) <-chan models.RemoteData[models.DomainObject] {
	out := make(chan models.RemoteData[models.DomainObject], streamBuffer)

	go func() {
		defer close(out)

		entryCh := b.tracker.Watch(requestID)
		cacheCh, cancel := b.cache.Subscribe(address)
		defer cancel()

		var entry models.RequestEntry
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-entryCh:
				if !ok {
					entryCh = nil
					continue
				}
				entry = e
			case <-cacheCh:
			}

			rd, terminal := b.projectSingle(entry, address)
			select {
			case out <- rd:
			case <-ctx.Done():
				return
			}
			if terminal {
				return
			}
		}
	}()

	return out
}

// BuildList streams the read-model for a collection request. Elements that
// already exist in the cache are materialized from it (pending local edits
// included); the remainder come from the response payload.
func (b *Builder) BuildList(ctx context.Context, requestID string) <-chan models.RemoteData[models.PaginatedList[models.DomainObject]] {
	out := make(chan models.RemoteData[models.PaginatedList[models.DomainObject]], streamBuffer)

	go func() {
		defer close(out)

		var entry models.RequestEntry
		select {
		case <-ctx.Done():
			return
		case e, ok := <-b.tracker.Watch(requestID):
			if !ok {
				return
			}
			entry = e
		}

		if !entry.Completed {
			select {
			case out <- models.Loading[models.PaginatedList[models.DomainObject]]():
			case <-ctx.Done():
				return
			}
			entry = b.awaitTerminal(ctx, requestID)
			if !entry.Completed {
				return
			}
		}

		select {
		case out <- b.projectList(entry):
		case <-ctx.Done():
		}
	}()

	return out
}

func (b *Builder) awaitTerminal(ctx context.Context, requestID string) models.RequestEntry {
	var last models.RequestEntry
	for entry := range b.tracker.Watch(requestID) {
		last = entry
		if entry.Completed {
			return entry
		}
		select {
		case <-ctx.Done():
			return models.RequestEntry{}
		default:
		}
	}
	return last
}

func (b *Builder) projectSingle(entry models.RequestEntry, address string) (models.RemoteData[models.DomainObject], bool) {
	if !entry.Completed {
		return models.Loading[models.DomainObject](), false
	}

	if entry.State == models.RequestStateError {
		return models.Failed[models.DomainObject](errorMessage(entry)), true
	}

	if address == "" {
		// Create requests learn their resource address from the response.
		if entry.Response != nil && entry.Response.Payload != nil && entry.Response.Payload.Object != nil {
			address = entry.Response.Payload.Object.Address
		}
	}

	ce, err := b.cache.Get(address)
	if err != nil || ce.Object == nil {
		// Payload pending materialization: success is known but the cache
		// write has not landed yet. Transient, not a failure.
		return models.Loading[models.DomainObject](), false
	}

	obj, err := b.codec.Denormalize(*ce.Object)
	if err != nil {
		b.logger.Err(err).Str("address", address).Msg("denormalize cached object failed")
		return models.Failed[models.DomainObject](err.Error()), true
	}
	return models.Succeeded(obj), true
}

func (b *Builder) projectList(entry models.RequestEntry) models.RemoteData[models.PaginatedList[models.DomainObject]] {
	if entry.State == models.RequestStateError {
		return models.Failed[models.PaginatedList[models.DomainObject]](errorMessage(entry))
	}
	if entry.Response == nil || entry.Response.Payload == nil || entry.Response.Payload.Page == nil {
		return models.Failed[models.PaginatedList[models.DomainObject]]("response carries no collection payload")
	}

	page := entry.Response.Payload.Page
	list := models.PaginatedList[models.DomainObject]{
		Elements:        make([]models.DomainObject, 0, len(page.Objects)),
		CurrentPage:     page.Page.Number + 1,
		ElementsPerPage: page.Page.Size,
		TotalElements:   page.Page.TotalElements,
		TotalPages:      page.Page.TotalPages,
	}

	for i := range page.Objects {
		norm := page.Objects[i]
		if ce, err := b.cache.Get(norm.Address); err == nil && ce.Object != nil {
			norm = *ce.Object
		}
		obj, err := b.codec.Denormalize(norm)
		if err != nil {
			b.logger.Err(err).Str("address", norm.Address).Msg("denormalize list element failed")
			return models.Failed[models.PaginatedList[models.DomainObject]](err.Error())
		}
		list.Elements = append(list.Elements, obj)
	}

	return models.Succeeded(list)
}

func errorMessage(entry models.RequestEntry) string {
	if entry.Response != nil && entry.Response.ErrorMessage != "" {
		return entry.Response.ErrorMessage
	}
	return "request failed"
}
