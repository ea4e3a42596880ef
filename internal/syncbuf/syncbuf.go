// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package syncbuf owns the timing of patch delivery: it accumulates no
// patches itself (those live in the object cache) but decides when the
// pending queue of an address is flushed to the server, retries failed
// flushes with exponential backoff, and runs the periodic background job.
//
// Per address the buffer moves through Empty -> Dirty (patch appended) ->
// Flushing (request dispatched) -> Empty on ack, or back to Dirty on nack
// with the patches retained. Flushes for one address are serialized;
// different addresses flush concurrently.
package syncbuf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/halsync/internal/adapter"
	"github.com/MKhiriev/halsync/internal/cache"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/tracker"
	"github.com/MKhiriev/halsync/models"
	"golang.org/x/sync/errgroup"
)

// ErrFlushFailure is returned when patch delivery for an address exhausted
// its retry budget. The pending patches are retained for the next attempt.
var ErrFlushFailure = errors.New("sync buffer: flush failed")

// FlushState describes the buffer's view of one address.
type FlushState string

const (
	FlushStateEmpty    FlushState = "empty"
	FlushStateDirty    FlushState = "dirty"
	FlushStateFlushing FlushState = "flushing"
)

// RetryConfig bounds the flush retry loop. Zero values fall back to the
// defaults documented per field.
type RetryConfig struct {
	// MaxAttempts is the total number of delivery attempts per flush call,
	// including the first. Default 3.
	MaxAttempts int
	// InitialBackoff is the delay before the second attempt. Default 200ms.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between attempts. Default 5s.
	MaxBackoff time.Duration
	// Multiplier grows the delay between attempts. Default 2.
	Multiplier float64
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 200 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2
	}
	return c
}

type addressState struct {
	flushMu  sync.Mutex
	queued   bool
	flushing bool
}

// Buffer schedules and performs patch flushes. It holds no patch storage of
// its own; queues are read from and cleared in the object cache.
type Buffer struct {
	cache    *cache.Cache
	tracker  *tracker.Tracker
	notifier adapter.Notifier
	logger   *logger.Logger
	retry    RetryConfig

	mu     sync.Mutex
	states map[string]*addressState
}

// NewBuffer returns a sync buffer flushing through trk. notifier may be nil
// when the host application has no notification surface.
func NewBuffer(c *cache.Cache, trk *tracker.Tracker, notifier adapter.Notifier, retry RetryConfig, log *logger.Logger) *Buffer {
	return &Buffer{
		cache:    c,
		tracker:  trk,
		notifier: notifier,
		logger:   log,
		retry:    retry.withDefaults(),
		states:   make(map[string]*addressState),
	}
}

// AutoQueue registers address for periodic flush consideration by the
// background job. Registration is idempotent.
func (b *Buffer) AutoQueue(address string) {
	if address == "" {
		return
	}
	st := b.state(address)
	b.mu.Lock()
	st.queued = true
	b.mu.Unlock()
}

// State reports the flush state of address.
func (b *Buffer) State(address string) FlushState {
	b.mu.Lock()
	st, ok := b.states[address]
	flushing := ok && st.flushing
	b.mu.Unlock()

	if flushing {
		return FlushStateFlushing
	}
	if len(b.cache.PendingPatches(address)) > 0 {
		return FlushStateDirty
	}
	return FlushStateEmpty
}

// Flush delivers the pending patches of address as a single PATCH request
// carrying the full ordered queue. An empty queue issues no transport call.
// On acknowledged success the flushed patches are cleared and the address
// invalidated in the tracker; on failure the patches are retained and the
// attempt repeated with exponential backoff until the retry budget is
// exhausted, at which point the failure is surfaced to the caller and the
// notifier.
//
// Flushes for the same address are serialized; a concurrent Flush call
// blocks until the previous one finished.
func (b *Buffer) Flush(ctx context.Context, address string) error {
	st := b.state(address)
	st.flushMu.Lock()
	defer st.flushMu.Unlock()

	patches := b.cache.PendingPatches(address)
	if len(patches) == 0 {
		return nil
	}

	body, err := json.Marshal(patches)
	if err != nil {
		return fmt.Errorf("%w: encode patches for %s: %v", ErrFlushFailure, address, err)
	}

	b.setFlushing(address, true)
	defer b.setFlushing(address, false)

	var lastErr error
	backoff := b.retry.InitialBackoff
	for attempt := 1; attempt <= b.retry.MaxAttempts; attempt++ {
		lastErr = b.deliver(ctx, address, body)
		if lastErr == nil {
			b.cache.ClearPatches(address, len(patches))
			b.tracker.InvalidateByAddress(address)
			b.logger.Debug().Str("address", address).Int("patches", len(patches)).Msg("flush acknowledged")
			return nil
		}

		if attempt == b.retry.MaxAttempts {
			break
		}
		b.logger.Warn().Err(lastErr).Str("address", address).Int("attempt", attempt).Msg("flush attempt failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * b.retry.Multiplier)
		if backoff > b.retry.MaxBackoff {
			backoff = b.retry.MaxBackoff
		}
	}

	flushErr := fmt.Errorf("%w: %s: %v", ErrFlushFailure, address, lastErr)
	if b.notifier != nil {
		b.notifier.NotifyError(flushErr.Error())
	}
	return flushErr
}

// deliver performs one delivery attempt and waits for the terminal state of
// the dispatched request.
func (b *Buffer) deliver(ctx context.Context, address string, body []byte) error {
	requestID, err := b.tracker.Configure(ctx, tracker.ConfigureRequest{
		ID:      b.tracker.GenerateID(),
		Address: address,
		Method:  http.MethodPatch,
		Body:    body,
	})
	if err != nil {
		return err
	}

	entry, err := b.awaitTerminal(ctx, requestID)
	if err != nil {
		return err
	}
	if entry.State != models.RequestStateSuccess {
		message := "flush rejected"
		if entry.Response != nil && entry.Response.ErrorMessage != "" {
			message = entry.Response.ErrorMessage
		}
		return errors.New(message)
	}
	return nil
}

func (b *Buffer) awaitTerminal(ctx context.Context, requestID string) (models.RequestEntry, error) {
	var last models.RequestEntry
	ch := b.tracker.Watch(requestID)
	for {
		select {
		case <-ctx.Done():
			return models.RequestEntry{}, ctx.Err()
		case entry, ok := <-ch:
			if !ok {
				return last, nil
			}
			last = entry
			if entry.Completed {
				return entry, nil
			}
		}
	}
}

// FlushAll flushes every address with a non-empty pending queue. Addresses
// flush concurrently; per-address serialization still holds. The first
// error is returned after all flushes finished.
func (b *Buffer) FlushAll(ctx context.Context) error {
	var g errgroup.Group
	for _, address := range b.cache.DirtyAddresses() {
		address := address
		g.Go(func() error {
			return b.Flush(ctx, address)
		})
	}
	return g.Wait()
}

// FlushQueued flushes the registered addresses that currently have pending
// patches. Called by the background job on every tick.
func (b *Buffer) FlushQueued(ctx context.Context) error {
	b.mu.Lock()
	queued := make([]string, 0, len(b.states))
	for address, st := range b.states {
		if st.queued {
			queued = append(queued, address)
		}
	}
	b.mu.Unlock()

	var g errgroup.Group
	for _, address := range queued {
		address := address
		g.Go(func() error {
			return b.Flush(ctx, address)
		})
	}
	return g.Wait()
}

func (b *Buffer) state(address string) *addressState {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.states[address]
	if !ok {
		st = &addressState{}
		b.states[address] = st
	}
	return st
}

func (b *Buffer) setFlushing(address string, flushing bool) {
	st := b.state(address)
	b.mu.Lock()
	st.flushing = flushing
	b.mu.Unlock()
}
