// Package index maintains the bidirectional mapping between a resource's
// stable short identifier and its current network address.
//
// The mapping is a bijection for its lifetime: registering an identifier
// again (e.g. after a server-side move) re-indexes it, removing the stale
// address binding in both directions. Lookup misses return [ErrNotFound]
// rather than panicking; callers decide whether a miss is fatal.
package index

import (
	"sync"

	"github.com/MKhiriev/halsync/internal/logger"
)

// Index is safe for concurrent use: reads may proceed in parallel, writes
// are serialized.
type Index struct {
	logger *logger.Logger

	mu        sync.RWMutex
	byID      map[string]string
	byAddress map[string]string
}

// NewIndex returns an empty identifier index.
func NewIndex(log *logger.Logger) *Index {
	return &Index{
		logger:    log,
		byID:      make(map[string]string),
		byAddress: make(map[string]string),
	}
}

// Resolve returns the current address registered for identifier, or
// [ErrNotFound] if the identifier is unknown.
func (i *Index) Resolve(identifier string) (string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	address, ok := i.byID[identifier]
	if !ok {
		return "", ErrNotFound
	}
	return address, nil
}

// ResolveReverse returns the identifier registered for address, or
// [ErrNotFound] if the address is unknown.
func (i *Index) ResolveReverse(address string) (string, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	identifier, ok := i.byAddress[address]
	if !ok {
		return "", ErrNotFound
	}
	return identifier, nil
}

// Register binds identifier and address in both directions. Existing
// bindings of either key are replaced, keeping the table a bijection: an
// address move re-indexes the identifier without changing it.
func (i *Index) Register(identifier, address string) {
	if identifier == "" || address == "" {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if oldAddress, ok := i.byID[identifier]; ok && oldAddress != address {
		delete(i.byAddress, oldAddress)
	}
	if oldID, ok := i.byAddress[address]; ok && oldID != identifier {
		delete(i.byID, oldID)
	}

	i.byID[identifier] = address
	i.byAddress[address] = identifier
}

// Unregister removes the identifier and its address binding. Unknown
// identifiers are ignored.
func (i *Index) Unregister(identifier string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	address, ok := i.byID[identifier]
	if !ok {
		return
	}
	delete(i.byID, identifier)
	delete(i.byAddress, address)
}

// Len returns the number of registered identifiers.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.byID)
}
