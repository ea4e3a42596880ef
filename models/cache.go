package models

import "time"

// CacheEntry is the canonical cached record for one resource address. The
// normalized object cache owns all CacheEntry storage; at most one entry
// exists per address.
type CacheEntry struct {
	// Object is the last known normalized representation of the entity.
	// Nil for placeholder entries created by AddPatch before any network
	// response arrived.
	Object *NormalizedObject
	// RequestID identifies the request entry that most recently populated
	// Object, for freshness correlation.
	RequestID string
	// PendingPatches are local edits not yet flushed to the server, in
	// append order. Flushes replay them in exactly this order.
	PendingPatches []PatchOperation
	// LastUpdated is the time Object was last overwritten.
	LastUpdated time.Time
}
