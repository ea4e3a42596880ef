package service

import (
	"github.com/MKhiriev/halsync/internal/adapter"
	"github.com/MKhiriev/halsync/internal/cache"
	"github.com/MKhiriev/halsync/internal/index"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/models"
)

// CacheSink consumes terminal request entries from the tracker: successful
// payloads are written into the object cache and the identifier index;
// failures are forwarded to the notification collaborator. One sink serves
// every entity kind — it is installed on the tracker once during wiring.
type CacheSink struct {
	cache    *cache.Cache
	index    *index.Index
	notifier adapter.Notifier
	logger   *logger.Logger
}

// NewCacheSink returns a sink writing into c and idx. notifier may be nil.
func NewCacheSink(c *cache.Cache, idx *index.Index, notifier adapter.Notifier, log *logger.Logger) *CacheSink {
	return &CacheSink{cache: c, index: idx, notifier: notifier, logger: log}
}

// Consume implements tracker.ResponseSink.
func (s *CacheSink) Consume(entry models.RequestEntry) {
	if entry.State == models.RequestStateError {
		if s.notifier != nil && entry.Response != nil && entry.Response.ErrorMessage != "" {
			s.notifier.NotifyError(entry.Response.ErrorMessage)
		}
		return
	}
	if entry.Response == nil || entry.Response.Payload == nil {
		return
	}

	payload := entry.Response.Payload
	if payload.Object != nil {
		s.store(entry, *payload.Object)
	}
	if payload.Page != nil {
		for _, object := range payload.Page.Objects {
			s.store(entry, object)
		}
	}
}

func (s *CacheSink) store(entry models.RequestEntry, object models.NormalizedObject) {
	address := object.Address
	if address == "" {
		// Some responses omit the self link; the request address is the
		// only address we have.
		address = entry.Address
	}
	if address == "" {
		s.logger.Warn().Str("request_id", entry.ID).Msg("response object has no resolvable address, skipping cache write")
		return
	}

	s.cache.Put(address, &object, entry.ID)
	if object.ID != "" {
		s.index.Register(object.ID, address)
	}
}
