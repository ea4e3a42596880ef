// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache is the canonical normalized store for the entity graph,
// keyed by resource address. It owns every cache entry and all pending
// patch queues; other components mutate it only through the exported
// operations.
//
// Reads materialize pending patches over the stored object before
// returning, so uncommitted local edits are immediately visible to the
// process (read-your-writes). Network writes never drop pending patches:
// the local queue survives a Put and is reapplied on the next read.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/halsync/internal/diff"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/models"
)

// Cache is safe for concurrent use. It is a process-wide singleton
// constructed at start-up and reset only by test teardown.
type Cache struct {
	logger *logger.Logger

	mu       sync.RWMutex
	entries  map[string]*models.CacheEntry
	watchers map[string][]chan struct{}
}

// NewCache returns an empty cache.
func NewCache(log *logger.Logger) *Cache {
	return &Cache{
		logger:   log,
		entries:  make(map[string]*models.CacheEntry),
		watchers: make(map[string][]chan struct{}),
	}
}

// Get returns the materialized view of the entry for address: a clone of
// the stored entry with all pending patches applied over the object. The
// canonical stored entry is never exposed. Returns [ErrNotFound] when no
// entry exists, or a wrapped patch error if the queue cannot be applied to
// the current base.
func (c *Cache) Get(address string) (models.CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[address]
	if !ok {
		c.mu.RUnlock()
		return models.CacheEntry{}, ErrNotFound
	}
	view := cloneEntry(entry)
	c.mu.RUnlock()

	if view.Object != nil && len(view.PendingPatches) > 0 {
		fields, err := diff.Apply(view.Object.Fields, view.PendingPatches)
		if err != nil {
			return models.CacheEntry{}, fmt.Errorf("materialize %s: %w", address, err)
		}
		view.Object.Fields = fields
	}

	return view, nil
}

// Put inserts or overwrites the object and populating request ID for
// address. Any pending patches on an existing entry are preserved: a
// network response must not discard unflushed local edits, which take
// precedence over the new base on the next read.
func (c *Cache) Put(address string, object *models.NormalizedObject, requestID string) {
	if address == "" || object == nil {
		return
	}

	c.mu.Lock()
	entry, ok := c.entries[address]
	if !ok {
		entry = &models.CacheEntry{}
		c.entries[address] = entry
	}
	entry.Object = object.Clone()
	entry.RequestID = requestID
	entry.LastUpdated = time.Now()
	c.notifyLocked(address)
	c.mu.Unlock()
}

// Remove evicts the entry for address entirely, pending patches included.
// Used after a confirmed server-side deletion.
func (c *Cache) Remove(address string) {
	c.mu.Lock()
	if _, ok := c.entries[address]; ok {
		delete(c.entries, address)
		c.notifyLocked(address)
	}
	c.mu.Unlock()
}

// AddPatch appends operations to the pending queue for address, creating an
// empty placeholder entry if none exists yet. Queue order is append order
// and is preserved through flushes.
func (c *Cache) AddPatch(address string, operations ...models.PatchOperation) {
	if address == "" || len(operations) == 0 {
		return
	}

	c.mu.Lock()
	entry, ok := c.entries[address]
	if !ok {
		entry = &models.CacheEntry{}
		c.entries[address] = entry
	}
	entry.PendingPatches = append(entry.PendingPatches, operations...)
	c.notifyLocked(address)
	c.mu.Unlock()
}

// ClearPatches commits the first count pending patches for address, or the
// whole queue if count is negative or exceeds its length. Called only after
// a confirmed flush acknowledgment; the count guards patches that were
// appended while the flush was in flight. The committed prefix is folded
// into the base object so reads stay consistent until the next refetch. A
// placeholder entry whose queue drains is destroyed.
func (c *Cache) ClearPatches(address string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[address]
	if !ok {
		return
	}

	committed := entry.PendingPatches
	if count >= 0 && count < len(entry.PendingPatches) {
		committed = entry.PendingPatches[:count]
		entry.PendingPatches = append([]models.PatchOperation(nil), entry.PendingPatches[count:]...)
	} else {
		entry.PendingPatches = nil
	}

	if entry.Object != nil && len(committed) > 0 {
		if fields, err := diff.Apply(entry.Object.Fields, committed); err == nil {
			entry.Object.Fields = fields
		} else {
			// The server accepted the patches anyway; the next refetch
			// reconciles the base.
			c.logger.Warn().Err(err).Str("address", address).Msg("committed patches not foldable into base object")
		}
	}
	if entry.Object == nil && len(entry.PendingPatches) == 0 {
		delete(c.entries, address)
	}
	c.notifyLocked(address)
}

// PendingPatches returns a copy of the pending queue for address.
func (c *Cache) PendingPatches(address string) []models.PatchOperation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[address]
	if !ok || len(entry.PendingPatches) == 0 {
		return nil
	}
	return append([]models.PatchOperation(nil), entry.PendingPatches...)
}

// DirtyAddresses returns every address with a non-empty pending queue.
func (c *Cache) DirtyAddresses() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var addresses []string
	for address, entry := range c.entries {
		if len(entry.PendingPatches) > 0 {
			addresses = append(addresses, address)
		}
	}
	return addresses
}

// Subscribe registers a change signal for address. The channel receives a
// coalesced signal after every mutation of the entry; cancel releases the
// subscription.
func (c *Cache) Subscribe(address string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.mu.Lock()
	c.watchers[address] = append(c.watchers[address], ch)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.watchers[address]
		for i, sub := range subs {
			if sub == ch {
				c.watchers[address] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(c.watchers[address]) == 0 {
			delete(c.watchers, address)
		}
	}
	return ch, cancel
}

// notifyLocked signals all subscribers of address. Caller holds c.mu.
// Signals are coalesced: a subscriber that has not consumed the previous
// signal is not blocked on.
func (c *Cache) notifyLocked(address string) {
	for _, ch := range c.watchers[address] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Export returns a deep copy of all entries, keyed by address. Used by the
// snapshot store.
func (c *Cache) Export() map[string]models.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.CacheEntry, len(c.entries))
	for address, entry := range c.entries {
		out[address] = cloneEntry(entry)
	}
	return out
}

// Restore replaces the cache content with previously exported entries.
// Intended for warm starts before any other component runs.
func (c *Cache) Restore(entries map[string]models.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*models.CacheEntry, len(entries))
	for address, entry := range entries {
		cp := cloneEntry(&entry)
		c.entries[address] = &cp
		c.notifyLocked(address)
	}
}

func cloneEntry(entry *models.CacheEntry) models.CacheEntry {
	cp := models.CacheEntry{
		Object:      entry.Object.Clone(),
		RequestID:   entry.RequestID,
		LastUpdated: entry.LastUpdated,
	}
	if len(entry.PendingPatches) > 0 {
		cp.PendingPatches = append([]models.PatchOperation(nil), entry.PendingPatches...)
	}
	return cp
}
