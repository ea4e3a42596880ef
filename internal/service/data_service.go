package service

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/halsync/internal/cache"
	"github.com/MKhiriev/halsync/internal/diff"
	"github.com/MKhiriev/halsync/internal/index"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/remotedata"
	"github.com/MKhiriev/halsync/internal/syncbuf"
	"github.com/MKhiriev/halsync/internal/tracker"
	"github.com/MKhiriev/halsync/models"
)

// Config binds a data service to one entity kind of the repository.
type Config struct {
	// Kind is the entity kind tag registered with the serializer.
	Kind string
	// CollectionAddress is the URL of the kind's collection resource.
	CollectionAddress string
	// ReadTTL bounds how long terminal read entries satisfy new requests.
	// Zero keeps the default: entries live until explicitly invalidated.
	ReadTTL time.Duration
}

type dataService struct {
	cfg     Config
	tracker *tracker.Tracker
	cache   *cache.Cache
	index   *index.Index
	buffer  *syncbuf.Buffer
	builder *remotedata.Builder
	codec   Codec
	logger  *logger.Logger
}

// NewDataService assembles the outward service for one entity kind over
// the shared core components.
func NewDataService(
	cfg Config,
	trk *tracker.Tracker,
	c *cache.Cache,
	idx *index.Index,
	buf *syncbuf.Buffer,
	bld *remotedata.Builder,
	codec Codec,
	log *logger.Logger,
) DataService {
	return &dataService{
		cfg:     cfg,
		tracker: trk,
		cache:   c,
		index:   idx,
		buffer:  buf,
		builder: bld,
		codec:   codec,
		logger:  log,
	}
}

func (s *dataService) FindAll(ctx context.Context, opts models.FindAllOptions) <-chan models.RemoteData[models.PaginatedList[models.DomainObject]] {
	address := s.cfg.CollectionAddress
	if query := opts.QueryValues(); len(query) > 0 {
		address += "?" + query.Encode()
	}

	requestID, err := s.tracker.Configure(ctx, tracker.ConfigureRequest{
		Address: address,
		Method:  http.MethodGet,
		Kind:    s.cfg.Kind,
		TTL:     s.cfg.ReadTTL,
	})
	if err != nil {
		return terminalStream(models.Failed[models.PaginatedList[models.DomainObject]](err.Error()))
	}

	return s.builder.BuildList(ctx, requestID)
}

func (s *dataService) FindByID(ctx context.Context, id string) <-chan models.RemoteData[models.DomainObject] {
	address, err := s.index.Resolve(id)
	if err != nil {
		// Unknown identifier: not yet fatal. The repository convention
		// keeps single resources under their collection.
		address = s.cfg.CollectionAddress + "/" + id
	}
	return s.FindByAddress(ctx, address)
}

func (s *dataService) FindByAddress(ctx context.Context, address string) <-chan models.RemoteData[models.DomainObject] {
	requestID, err := s.tracker.Configure(ctx, tracker.ConfigureRequest{
		Address: address,
		Method:  http.MethodGet,
		Kind:    s.cfg.Kind,
		TTL:     s.cfg.ReadTTL,
	})
	if err != nil {
		return terminalStream(models.Failed[models.DomainObject](err.Error()))
	}

	return s.builder.BuildSingle(ctx, requestID, address)
}

func (s *dataService) Create(ctx context.Context, obj models.DomainObject, parentID string) <-chan models.RemoteData[models.DomainObject] {
	body, err := s.codec.EncodeObject(obj)
	if err != nil {
		return terminalStream(models.Failed[models.DomainObject](err.Error()))
	}

	address := s.cfg.CollectionAddress
	if parentID != "" {
		parentAddress, err := s.index.Resolve(parentID)
		if err != nil {
			return terminalStream(models.Failed[models.DomainObject]("unknown parent: " + parentID))
		}
		address = parentAddress + "/" + s.cfg.Kind + "s"
	}

	requestID, err := s.tracker.Configure(ctx, tracker.ConfigureRequest{
		ID:      s.tracker.GenerateID(),
		Address: address,
		Method:  http.MethodPost,
		Kind:    s.cfg.Kind,
		Body:    body,
	})
	if err != nil {
		return terminalStream(models.Failed[models.DomainObject](err.Error()))
	}

	// Collection reads cached before this create are now incomplete.
	go s.invalidateCollectionOnSuccess(requestID)

	// The created resource's address is only known from the response; the
	// builder picks it up from the terminal entry.
	return s.builder.BuildSingle(ctx, requestID, "")
}

func (s *dataService) Update(ctx context.Context, obj models.DomainObject) <-chan models.RemoteData[models.DomainObject] {
	address := s.resolveAddress(obj)
	if address == "" {
		return terminalStream(models.Failed[models.DomainObject]("object has no resolvable address"))
	}

	newNorm, err := s.codec.Normalize(obj)
	if err != nil {
		return terminalStream(models.Failed[models.DomainObject](err.Error()))
	}

	var oldFields map[string]any
	if entry, err := s.cache.Get(address); err == nil && entry.Object != nil {
		oldFields = entry.Object.Fields
	}

	operations := diff.Diff(oldFields, newNorm.Fields)
	if len(operations) == 0 {
		// Nothing changed: no patch, no dispatch.
		return terminalStream(models.Succeeded(obj))
	}

	s.cache.AddPatch(address, operations...)
	s.buffer.AutoQueue(address)

	out := make(chan models.RemoteData[models.DomainObject], 2)
	go func() {
		defer close(out)
		out <- models.Loading[models.DomainObject]()

		if err := s.buffer.Flush(ctx, address); err != nil {
			// Patches stay queued; the background job keeps trying.
			out <- models.Failed[models.DomainObject](err.Error())
			return
		}
		out <- models.Succeeded(s.materialized(address, obj))
	}()
	return out
}

func (s *dataService) Delete(ctx context.Context, obj models.DomainObject) <-chan bool {
	out := make(chan bool, 1)

	address := s.resolveAddress(obj)
	if address == "" {
		out <- false
		close(out)
		return out
	}

	requestID, err := s.tracker.Configure(ctx, tracker.ConfigureRequest{
		ID:      s.tracker.GenerateID(),
		Address: address,
		Method:  http.MethodDelete,
	})
	if err != nil {
		out <- false
		close(out)
		return out
	}

	go func() {
		defer close(out)

		entry := s.awaitTerminal(requestID)
		if entry.State != models.RequestStateSuccess {
			// Failed deletion keeps the cache entry intact.
			out <- false
			return
		}

		s.cache.Remove(address)
		s.index.Unregister(obj.Identifier())
		s.tracker.InvalidateByAddress(address)
		s.tracker.InvalidateByAddress(s.cfg.CollectionAddress)
		out <- true
	}()
	return out
}

func (s *dataService) resolveAddress(obj models.DomainObject) string {
	if address := obj.SelfAddress(); address != "" {
		return address
	}
	address, err := s.index.Resolve(obj.Identifier())
	if err != nil {
		return ""
	}
	return address
}

// materialized re-reads the flushed entity from the cache so the emitted
// payload reflects read-your-writes; obj is the fallback when the entry is
// gone.
func (s *dataService) materialized(address string, obj models.DomainObject) models.DomainObject {
	entry, err := s.cache.Get(address)
	if err != nil || entry.Object == nil {
		return obj
	}
	domain, err := s.codec.Denormalize(*entry.Object)
	if err != nil {
		return obj
	}
	return domain
}

func (s *dataService) invalidateCollectionOnSuccess(requestID string) {
	entry := s.awaitTerminal(requestID)
	if entry.State == models.RequestStateSuccess {
		s.tracker.InvalidateByAddress(s.cfg.CollectionAddress)
	}
}

func (s *dataService) awaitTerminal(requestID string) models.RequestEntry {
	var last models.RequestEntry
	for entry := range s.tracker.Watch(requestID) {
		last = entry
		if entry.Completed {
			break
		}
	}
	return last
}

// terminalStream wraps a single terminal read-model value as a closed
// stream.
func terminalStream[T any](value models.RemoteData[T]) <-chan models.RemoteData[T] {
	out := make(chan models.RemoteData[T], 1)
	out <- value
	close(out)
	return out
}
