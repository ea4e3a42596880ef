package serializer

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/MKhiriev/halsync/models"
)

// Codec is the generic serialize/deserialize implementation driven by the
// schemas in a [Registry]. All methods are pure over the registered kinds.
type Codec struct {
	registry *Registry
}

// NewCodec returns a codec bound to registry.
func NewCodec(registry *Registry) *Codec {
	return &Codec{registry: registry}
}

// Normalize converts a domain object into its normalized representation
// using the schema registered for its kind.
func (c *Codec) Normalize(obj models.DomainObject) (models.NormalizedObject, error) {
	schema, err := c.registry.Lookup(obj.Kind())
	if err != nil {
		return models.NormalizedObject{}, err
	}

	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return models.NormalizedObject{}, fmt.Errorf("%w: nil %s", ErrSerializationFailure, schema.Kind)
		}
		value = value.Elem()
	}
	if value.Type() != schema.Type {
		return models.NormalizedObject{}, fmt.Errorf("%w: kind %q expects %s, got %s",
			ErrSerializationFailure, schema.Kind, schema.Type.Name(), value.Type().Name())
	}

	fields := make(map[string]any, len(schema.Fields))
	for _, mapping := range schema.Fields {
		raw := value.FieldByName(mapping.Attr).Interface()
		converted, err := toJSONValue(raw)
		if err != nil {
			return models.NormalizedObject{}, fmt.Errorf("%w: field %s: %v", ErrSerializationFailure, mapping.Attr, err)
		}
		fields[mapping.Wire] = converted
	}

	return models.NormalizedObject{
		Kind:    schema.Kind,
		ID:      obj.Identifier(),
		Address: obj.SelfAddress(),
		Fields:  fields,
	}, nil
}

// Denormalize reconstructs a domain object from its normalized form.
func (c *Codec) Denormalize(norm models.NormalizedObject) (models.DomainObject, error) {
	schema, err := c.registry.Lookup(norm.Kind)
	if err != nil {
		return nil, err
	}

	target := reflect.New(schema.Type)
	elem := target.Elem()

	for _, mapping := range schema.Fields {
		raw, ok := norm.Fields[mapping.Wire]
		if !ok || raw == nil {
			continue
		}
		field := elem.FieldByName(mapping.Attr)
		if err := fromJSONValue(raw, field); err != nil {
			return nil, fmt.Errorf("%w: kind %q field %s: %v", ErrSerializationFailure, norm.Kind, mapping.Attr, err)
		}
	}

	if schema.AddressAttr != "" && norm.Address != "" {
		if field := elem.FieldByName(schema.AddressAttr); field.IsValid() && field.Kind() == reflect.String {
			field.SetString(norm.Address)
		}
	}

	obj, ok := target.Interface().(models.DomainObject)
	if !ok {
		return nil, fmt.Errorf("%w: *%s does not implement models.DomainObject", ErrSerializationFailure, schema.Type.Name())
	}
	return obj, nil
}

// toJSONValue reduces an arbitrary Go value to the JSON-compatible subset
// the normalized form is restricted to (string, float64, bool, nil,
// map[string]any, []any).
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func fromJSONValue(v any, field reflect.Value) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, field.Addr().Interface())
}
