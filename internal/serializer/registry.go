// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package serializer translates between domain objects, their normalized
// cache representation, and the HAL JSON wire format.
//
// Entity kinds are described by explicit [Schema] descriptors consumed by a
// generic serialize/deserialize implementation; there is no per-kind codec
// code. Kinds are registered once at startup — a lookup miss is a reported
// configuration error, never a runtime fallback.
package serializer

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/MKhiriev/halsync/models"
)

// FieldMapping binds one struct field of a domain object to its wire name.
type FieldMapping struct {
	// Attr is the Go struct field name.
	Attr string
	// Wire is the JSON member name on the wire and in the normalized form.
	Wire string
}

// Schema describes how one entity kind is (de)serialized. Fields are listed
// in declaration order, which fixes the order the serializer emits them in.
type Schema struct {
	// Kind is the entity kind tag, unique within a registry.
	Kind string
	// Type is the struct type of the domain object (not the pointer type).
	// *Type must implement models.DomainObject.
	Type reflect.Type
	// Fields maps struct fields to wire members, in declaration order.
	Fields []FieldMapping
	// IDWire is the wire member carrying the stable identifier.
	// Defaults to "uuid".
	IDWire string
	// CollectionRel is the _embedded relation name used for pages of this
	// kind. Defaults to Kind + "s".
	CollectionRel string
	// AddressAttr optionally names a string struct field that receives the
	// resource's self address on denormalization.
	AddressAttr string
}

// Registry is the entity-kind dispatch table. It is populated during
// process start-up and read-only afterwards, but guarded for safety since
// many goroutines consult it concurrently.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// Register validates and stores a schema. Registering a kind twice or an
// invalid schema is a configuration error.
func (r *Registry) Register(schema Schema) error {
	if schema.Kind == "" {
		return fmt.Errorf("%w: empty kind", ErrInvalidSchema)
	}
	if schema.Type == nil || schema.Type.Kind() != reflect.Struct {
		return fmt.Errorf("%w: kind %q: schema type must be a struct", ErrInvalidSchema, schema.Kind)
	}
	domainObjectType := reflect.TypeOf((*models.DomainObject)(nil)).Elem()
	if !reflect.PointerTo(schema.Type).Implements(domainObjectType) {
		return fmt.Errorf("%w: kind %q: *%s does not implement models.DomainObject", ErrInvalidSchema, schema.Kind, schema.Type.Name())
	}
	for _, f := range schema.Fields {
		if _, ok := schema.Type.FieldByName(f.Attr); !ok {
			return fmt.Errorf("%w: kind %q: unknown struct field %q", ErrInvalidSchema, schema.Kind, f.Attr)
		}
	}

	if schema.IDWire == "" {
		schema.IDWire = "uuid"
	}
	if schema.CollectionRel == "" {
		schema.CollectionRel = schema.Kind + "s"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[schema.Kind]; exists {
		return fmt.Errorf("%w: kind %q registered twice", ErrInvalidSchema, schema.Kind)
	}
	r.schemas[schema.Kind] = schema
	return nil
}

// MustRegister panics on registration failure. Intended for process
// start-up where a bad schema is unrecoverable.
func (r *Registry) MustRegister(schema Schema) {
	if err := r.Register(schema); err != nil {
		panic(err)
	}
}

// Lookup returns the schema for kind, or [ErrUnknownKind].
func (r *Registry) Lookup(kind string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[kind]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return schema, nil
}
