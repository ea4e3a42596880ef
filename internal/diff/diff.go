// Package diff implements the change analyzer: a pure structural comparison
// of two normalized entity versions producing an ordered sequence of
// JSON-patch operations, and the inverse application of such operations to
// a base document.
//
// The generated sequence is deterministic: fields are visited in sorted key
// order at every nesting level, so equal inputs always produce byte-equal
// patch lists. diff of two identical documents is empty, and applying
// Diff(old, new) to old yields new.
package diff

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/MKhiriev/halsync/models"
)

// Diff compares two field maps and returns the patch operations that
// transform old into new. Nested maps are descended into; any other changed
// value (including arrays) produces a single replace of its path.
func Diff(old, new map[string]any) []models.PatchOperation {
	return diffMaps(old, new, "")
}

// DiffObjects compares the payloads of two normalized objects.
func DiffObjects(old, new *models.NormalizedObject) []models.PatchOperation {
	var oldFields, newFields map[string]any
	if old != nil {
		oldFields = old.Fields
	}
	if new != nil {
		newFields = new.Fields
	}
	return Diff(oldFields, newFields)
}

func diffMaps(old, new map[string]any, basePath string) []models.PatchOperation {
	keys := make([]string, 0, len(old)+len(new))
	seen := make(map[string]struct{}, len(old)+len(new))
	for k := range old {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range new {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var ops []models.PatchOperation
	for _, key := range keys {
		path := basePath + "/" + escapeToken(key)
		oldValue, inOld := old[key]
		newValue, inNew := new[key]

		switch {
		case !inOld:
			ops = append(ops, models.PatchOperation{Op: models.PatchOpAdd, Path: path, Value: newValue})
		case !inNew:
			ops = append(ops, models.PatchOperation{Op: models.PatchOpRemove, Path: path})
		default:
			oldMap, oldIsMap := oldValue.(map[string]any)
			newMap, newIsMap := newValue.(map[string]any)
			if oldIsMap && newIsMap {
				ops = append(ops, diffMaps(oldMap, newMap, path)...)
				continue
			}
			if !reflect.DeepEqual(oldValue, newValue) {
				ops = append(ops, models.PatchOperation{Op: models.PatchOpReplace, Path: path, Value: newValue})
			}
		}
	}
	return ops
}

func escapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

func unescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

func splitPointer(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("empty json pointer")
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("json pointer %q must start with '/'", path)
	}
	raw := strings.Split(path[1:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = unescapeToken(t)
	}
	return tokens, nil
}
