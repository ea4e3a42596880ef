package diff

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/MKhiriev/halsync/models"
)

type patchMode int

const (
	modeAdd patchMode = iota
	modeReplace
	modeRemove
)

// Apply replays ops over base in order and returns the patched document.
// base is never mutated: the result is built on a deep copy, so a failed
// application leaves the caller's data intact.
func Apply(base map[string]any, ops []models.PatchOperation) (map[string]any, error) {
	doc := any(cloneAny(base))
	if doc == nil {
		doc = any(map[string]any{})
	}

	for i, op := range ops {
		var err error
		doc, err = applyOne(doc, op)
		if err != nil {
			return nil, fmt.Errorf("apply patch operation %d (%s %s): %w", i, op.Op, op.Path, err)
		}
	}

	result, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("patched document is not an object")
	}
	return result, nil
}

func applyOne(doc any, op models.PatchOperation) (any, error) {
	tokens, err := splitPointer(op.Path)
	if err != nil {
		return nil, err
	}

	switch op.Op {
	case models.PatchOpAdd:
		return setAtPath(doc, tokens, cloneAny(op.Value), modeAdd)
	case models.PatchOpReplace:
		return setAtPath(doc, tokens, cloneAny(op.Value), modeReplace)
	case models.PatchOpRemove:
		return setAtPath(doc, tokens, nil, modeRemove)
	case models.PatchOpTest:
		current, err := getAtPath(doc, tokens)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(current, op.Value) {
			return nil, fmt.Errorf("test failed: value at %s does not match", op.Path)
		}
		return doc, nil
	case models.PatchOpMove, models.PatchOpCopy:
		fromTokens, err := splitPointer(op.From)
		if err != nil {
			return nil, err
		}
		value, err := getAtPath(doc, fromTokens)
		if err != nil {
			return nil, err
		}
		value = cloneAny(value)
		if op.Op == models.PatchOpMove {
			doc, err = setAtPath(doc, fromTokens, nil, modeRemove)
			if err != nil {
				return nil, err
			}
		}
		return setAtPath(doc, tokens, value, modeAdd)
	default:
		return nil, fmt.Errorf("unsupported patch op %q", op.Op)
	}
}

func getAtPath(node any, tokens []string) (any, error) {
	current := node
	for _, token := range tokens {
		switch container := current.(type) {
		case map[string]any:
			value, ok := container[token]
			if !ok {
				return nil, fmt.Errorf("member %q not found", token)
			}
			current = value
		case []any:
			idx, err := arrayIndex(token, len(container), false)
			if err != nil {
				return nil, err
			}
			current = container[idx]
		default:
			return nil, fmt.Errorf("cannot descend into %T with token %q", current, token)
		}
	}
	return current, nil
}

func setAtPath(node any, tokens []string, value any, mode patchMode) (any, error) {
	token := tokens[0]

	if len(tokens) == 1 {
		return setLeaf(node, token, value, mode)
	}

	switch container := node.(type) {
	case map[string]any:
		child, ok := container[token]
		if !ok {
			return nil, fmt.Errorf("member %q not found", token)
		}
		updated, err := setAtPath(child, tokens[1:], value, mode)
		if err != nil {
			return nil, err
		}
		container[token] = updated
		return container, nil
	case []any:
		idx, err := arrayIndex(token, len(container), false)
		if err != nil {
			return nil, err
		}
		updated, err := setAtPath(container[idx], tokens[1:], value, mode)
		if err != nil {
			return nil, err
		}
		container[idx] = updated
		return container, nil
	default:
		return nil, fmt.Errorf("cannot descend into %T with token %q", node, token)
	}
}

func setLeaf(node any, token string, value any, mode patchMode) (any, error) {
	switch container := node.(type) {
	case map[string]any:
		_, exists := container[token]
		switch mode {
		case modeAdd:
			container[token] = value
		case modeReplace:
			if !exists {
				return nil, fmt.Errorf("member %q not found", token)
			}
			container[token] = value
		case modeRemove:
			if !exists {
				return nil, fmt.Errorf("member %q not found", token)
			}
			delete(container, token)
		}
		return container, nil
	case []any:
		switch mode {
		case modeAdd:
			if token == "-" {
				return append(container, value), nil
			}
			idx, err := arrayIndex(token, len(container), true)
			if err != nil {
				return nil, err
			}
			container = append(container, nil)
			copy(container[idx+1:], container[idx:])
			container[idx] = value
			return container, nil
		case modeReplace:
			idx, err := arrayIndex(token, len(container), false)
			if err != nil {
				return nil, err
			}
			container[idx] = value
			return container, nil
		case modeRemove:
			idx, err := arrayIndex(token, len(container), false)
			if err != nil {
				return nil, err
			}
			return append(container[:idx], container[idx+1:]...), nil
		}
		return container, nil
	default:
		return nil, fmt.Errorf("cannot edit %T with token %q", node, token)
	}
}

func arrayIndex(token string, length int, allowEnd bool) (int, error) {
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid array index %q", token)
	}
	limit := length
	if allowEnd {
		limit = length + 1
	}
	if idx < 0 || idx >= limit {
		return 0, fmt.Errorf("array index %d out of bounds (len %d)", idx, length)
	}
	return idx, nil
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneAny(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneAny(e)
		}
		return s
	default:
		return v
	}
}
