// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// DomainObject is implemented by every application entity managed through
// the data-access layer. Implementations are plain structs; the serializer
// registry maps their Kind to a schema descriptor.
type DomainObject interface {
	// Kind returns the entity kind tag used for registry lookups.
	Kind() string
	// Identifier returns the stable short identifier (e.g. a UUID),
	// distinct from the resource address.
	Identifier() string
	// SelfAddress returns the canonical URL of this resource instance, or
	// an empty string if the object has not been persisted yet.
	SelfAddress() string
}

// NormalizedObject is the wire-neutral representation of a single entity as
// stored in the object cache.
type NormalizedObject struct {
	// Kind is the entity kind tag.
	Kind string
	// ID is the stable short identifier of the resource.
	ID string
	// Address is the canonical self URL of the resource.
	Address string
	// Fields holds the entity payload keyed by wire field name. Values are
	// restricted to JSON-compatible types.
	Fields map[string]any
}

// Clone returns a deep copy of the object. Cache reads hand out clones so
// callers can never mutate canonical storage in place.
func (o *NormalizedObject) Clone() *NormalizedObject {
	if o == nil {
		return nil
	}
	cp := *o
	cp.Fields = cloneValue(o.Fields).(map[string]any)
	return &cp
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// PageInfo carries pagination metadata in wire form (0-based page number).
type PageInfo struct {
	Number        int `json:"number"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// NormalizedPage is one page of a collection resource.
type NormalizedPage struct {
	Objects []NormalizedObject
	Page    PageInfo
}

// NormalizedPayload is the decoded body of a successful response: exactly
// one of Object or Page is set.
type NormalizedPayload struct {
	Object *NormalizedObject
	Page   *NormalizedPage
}
