package tracker

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/halsync/internal/adapter"
	"github.com/MKhiriev/halsync/internal/index"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/utils"
	"github.com/MKhiriev/halsync/models"
)

// watchBuffer sizes subscriber channels. A tracked entry transitions at
// most once, so snapshot plus terminal state always fit.
const watchBuffer = 2

// ConfigureRequest describes one logical request presented to Configure.
type ConfigureRequest struct {
	// ID must come from GenerateID and is never reused.
	ID string
	// Address is the target resource URL. May be empty if Identifier is
	// set, in which case the identifier index resolves it.
	Identifier string
	Address    string
	// Method is GET, POST, PATCH or DELETE. Only GET requests participate
	// in address-based deduplication; write methods are identity-sensitive
	// and dedup by ID alone.
	Method string
	// Kind selects the entity kind the response body is decoded as. Leave
	// empty for requests without a decodable payload.
	Kind string
	// Body is the request payload, nil for body-less methods.
	Body []byte
	// TTL bounds how long a terminal entry for the same address satisfies
	// new GET requests. Zero means entries never auto-expire and are only
	// retired by explicit invalidation.
	TTL time.Duration
}

type trackedEntry struct {
	entry models.RequestEntry
	stale bool
	subs  []chan models.RequestEntry
}

// Tracker owns all request-entry storage. It is a process-wide singleton;
// all mutation goes through its exported methods.
type Tracker struct {
	transport adapter.Transport
	codec     Normalizer
	index     *index.Index
	ids       *utils.UUIDGenerator
	logger    *logger.Logger

	mu        sync.Mutex
	entries   map[string]*trackedEntry
	byAddress map[string]string
	sink      ResponseSink
}

// NewTracker returns a tracker dispatching through transport, decoding
// successful payloads with codec, and resolving identifiers through idx.
func NewTracker(transport adapter.Transport, codec Normalizer, idx *index.Index, log *logger.Logger) *Tracker {
	return &Tracker{
		transport: transport,
		codec:     codec,
		index:     idx,
		ids:       utils.NewUUIDGenerator(),
		logger:    log,
		entries:   make(map[string]*trackedEntry),
		byAddress: make(map[string]string),
	}
}

// SetResponseSink installs the consumer invoked once per terminal entry.
// Must be called during wiring, before any Configure call.
func (t *Tracker) SetResponseSink(sink ResponseSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = sink
}

// GenerateID produces a fresh request identifier. IDs are opaque to
// callers and never reused.
func (t *Tracker) GenerateID() string {
	return t.ids.Generate()
}

// Configure is the central dispatch decision point. It returns the ID of
// the request entry the caller should observe: either an acceptable
// existing entry (pending, or terminal and not stale) or a freshly
// dispatched one.
//
// The check-then-dispatch sequence runs under the tracker lock, so two
// concurrent Configure calls for the same address can never both dispatch.
func (t *Tracker) Configure(ctx context.Context, req ConfigureRequest) (string, error) {
	if req.Address == "" && req.Identifier != "" {
		// Caller knows only the stable identifier; the index owns the
		// identifier-to-address mapping.
		address, err := t.index.Resolve(req.Identifier)
		if err != nil {
			return "", err
		}
		req.Address = address
	}
	if req.Address == "" {
		return "", ErrNoAddress
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.ID == "" {
		req.ID = t.GenerateID()
	}

	t.mu.Lock()

	if existing := t.reusableLocked(req); existing != "" {
		t.mu.Unlock()
		t.logger.Debug().Str("address", req.Address).Str("request_id", existing).Msg("request deduplicated")
		return existing, nil
	}

	entry := models.RequestEntry{
		ID:        req.ID,
		Address:   req.Address,
		Method:    req.Method,
		Kind:      req.Kind,
		State:     models.RequestStatePending,
		Timestamp: time.Now(),
	}
	t.entries[req.ID] = &trackedEntry{entry: entry}
	if req.Method == http.MethodGet {
		t.byAddress[req.Address] = req.ID
	}
	t.mu.Unlock()

	// The dispatching path is the only one that may suspend. An observer
	// going away must not cancel a call other observers may depend on, so
	// the transport call survives the caller's cancellation.
	go t.dispatch(context.WithoutCancel(ctx), req)

	return req.ID, nil
}

// reusableLocked returns the ID of an entry that satisfies req without a
// new dispatch, or "". Caller holds t.mu.
func (t *Tracker) reusableLocked(req ConfigureRequest) string {
	if req.Method != http.MethodGet {
		// Identity-sensitive: only the exact same request ID is reused.
		if _, ok := t.entries[req.ID]; ok {
			return req.ID
		}
		return ""
	}

	id, ok := t.byAddress[req.Address]
	if !ok {
		return ""
	}
	tracked, ok := t.entries[id]
	if !ok || tracked.stale {
		return ""
	}
	if !tracked.entry.Completed {
		return id
	}
	if req.TTL > 0 && time.Since(tracked.entry.Timestamp) >= req.TTL {
		return ""
	}
	return id
}

func (t *Tracker) dispatch(ctx context.Context, req ConfigureRequest) {
	resp, err := t.transport.Send(ctx, req.Method, req.Address, req.Body)
	if err != nil {
		t.complete(req.ID, models.RequestStateError, &models.RequestResponse{ErrorMessage: err.Error()})
		return
	}
	if !resp.Successful {
		t.complete(req.ID, models.RequestStateError, &models.RequestResponse{
			Status:       resp.Status,
			ErrorMessage: resp.ErrorMessage,
		})
		return
	}

	response := &models.RequestResponse{Status: resp.Status}
	if req.Kind != "" && req.Method != http.MethodDelete && len(resp.Body) > 0 {
		payload, decodeErr := t.codec.DecodePayload(req.Kind, resp.Body)
		if decodeErr != nil {
			t.logger.Err(decodeErr).Str("address", req.Address).Msg("response payload decode failed")
			t.complete(req.ID, models.RequestStateError, &models.RequestResponse{
				Status:       resp.Status,
				ErrorMessage: decodeErr.Error(),
			})
			return
		}
		response.Payload = &payload
	}

	t.complete(req.ID, models.RequestStateSuccess, response)
}

// complete transitions an entry to its terminal state exactly once, feeds
// it to the response sink, then releases all observers.
func (t *Tracker) complete(id string, state models.RequestState, response *models.RequestResponse) {
	t.mu.Lock()
	tracked, ok := t.entries[id]
	if !ok || tracked.entry.Completed {
		t.mu.Unlock()
		return
	}
	tracked.entry.State = state
	tracked.entry.Response = response
	tracked.entry.Completed = true
	snapshot := tracked.entry
	subs := tracked.subs
	tracked.subs = nil
	sink := t.sink
	t.mu.Unlock()

	if sink != nil {
		sink.Consume(snapshot)
	}

	for _, sub := range subs {
		sub <- snapshot
		close(sub)
	}
}

// Watch returns a stream of entry states for id. The current state is
// delivered immediately; the terminal state (if not yet reached) follows,
// after which the channel closes. Watching never triggers a dispatch, and
// any number of observers may watch the same entry independently.
//
// An unknown id yields a closed, empty channel.
func (t *Tracker) Watch(id string) <-chan models.RequestEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan models.RequestEntry, watchBuffer)
	tracked, ok := t.entries[id]
	if !ok {
		close(ch)
		return ch
	}

	ch <- tracked.entry
	if tracked.entry.Completed {
		close(ch)
		return ch
	}
	tracked.subs = append(tracked.subs, ch)
	return ch
}

// Get returns a snapshot of the entry for id.
func (t *Tracker) Get(id string) (models.RequestEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tracked, ok := t.entries[id]
	if !ok {
		return models.RequestEntry{}, false
	}
	return tracked.entry, true
}

// InvalidateByAddress marks the tracked entry for address stale so the next
// Configure call for it dispatches anew. Required after any successful
// write to the address. It never cancels an in-flight call and has no
// effect on observers of the existing entry.
func (t *Tracker) InvalidateByAddress(address string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.byAddress[address]
	if !ok {
		return
	}
	if tracked, ok := t.entries[id]; ok {
		tracked.stale = true
	}
}
