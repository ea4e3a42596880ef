package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/halsync/models"
)

// Wire members stripped from resource bodies before the remaining fields
// become the normalized payload.
const (
	linksMember    = "_links"
	embeddedMember = "_embedded"
	pageMember     = "page"
)

// DecodePayload parses a HAL JSON response body for the given entity kind
// into the normalized shape. A body with an _embedded member decodes as a
// page, anything else as a single resource. Malformed bodies return a
// wrapped [ErrSerializationFailure].
func (c *Codec) DecodePayload(kind string, body []byte) (models.NormalizedPayload, error) {
	schema, err := c.registry.Lookup(kind)
	if err != nil {
		return models.NormalizedPayload{}, err
	}

	var doc map[string]any
	if err = json.Unmarshal(body, &doc); err != nil {
		return models.NormalizedPayload{}, fmt.Errorf("%w: decode %s body: %v", ErrSerializationFailure, kind, err)
	}

	if embedded, ok := doc[embeddedMember].(map[string]any); ok {
		return c.decodePage(schema, doc, embedded)
	}

	object, err := c.decodeResource(schema, doc)
	if err != nil {
		return models.NormalizedPayload{}, err
	}
	return models.NormalizedPayload{Object: &object}, nil
}

// EncodeObject serializes a domain object's payload fields as a JSON body
// for create requests. HAL control members are never emitted.
func (c *Codec) EncodeObject(obj models.DomainObject) ([]byte, error) {
	norm, err := c.Normalize(obj)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(norm.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s body: %v", ErrSerializationFailure, norm.Kind, err)
	}
	return body, nil
}

func (c *Codec) decodePage(schema Schema, doc, embedded map[string]any) (models.NormalizedPayload, error) {
	resources, ok := embedded[schema.CollectionRel].([]any)
	if !ok {
		return models.NormalizedPayload{}, fmt.Errorf("%w: page of %q misses _embedded.%s",
			ErrSerializationFailure, schema.Kind, schema.CollectionRel)
	}

	page := models.NormalizedPage{Objects: make([]models.NormalizedObject, 0, len(resources))}
	for i, raw := range resources {
		resource, ok := raw.(map[string]any)
		if !ok {
			return models.NormalizedPayload{}, fmt.Errorf("%w: element %d of %q page is not an object",
				ErrSerializationFailure, i, schema.Kind)
		}
		object, err := c.decodeResource(schema, resource)
		if err != nil {
			return models.NormalizedPayload{}, err
		}
		page.Objects = append(page.Objects, object)
	}

	if info, ok := doc[pageMember].(map[string]any); ok {
		page.Page = models.PageInfo{
			Number:        intMember(info, "number"),
			Size:          intMember(info, "size"),
			TotalElements: intMember(info, "totalElements"),
			TotalPages:    intMember(info, "totalPages"),
		}
	}

	return models.NormalizedPayload{Page: &page}, nil
}

func (c *Codec) decodeResource(schema Schema, resource map[string]any) (models.NormalizedObject, error) {
	object := models.NormalizedObject{
		Kind:   schema.Kind,
		Fields: make(map[string]any, len(resource)),
	}

	if id, ok := resource[schema.IDWire].(string); ok {
		object.ID = id
	}
	object.Address = selfAddress(resource)

	for key, value := range resource {
		if key == linksMember || key == embeddedMember {
			continue
		}
		object.Fields[key] = value
	}

	return object, nil
}

func selfAddress(resource map[string]any) string {
	links, ok := resource[linksMember].(map[string]any)
	if !ok {
		return ""
	}
	self, ok := links["self"].(map[string]any)
	if !ok {
		return ""
	}
	href, _ := self["href"].(string)
	return href
}

func intMember(m map[string]any, key string) int {
	f, ok := m[key].(float64)
	if !ok {
		return 0
	}
	return int(f)
}
